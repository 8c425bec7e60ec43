package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disgoorg/casino-bot/casinobot/economy"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (f *fakeBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func newLedger(t *testing.T) *economy.Ledger {
	t.Helper()
	l, err := economy.NewLedger(economy.NewMemoryStore(), economy.DefaultSettings())
	require.NoError(t, err)
	_, err = l.Credit(context.Background(), "1", 500)
	require.NoError(t, err)
	_, err = l.GetAccount(context.Background(), "2")
	require.NoError(t, err)
	return l
}

func TestBackupRun(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}}
	s := NewBackupServiceWithClient(bucket, "casino", "/backups/")
	s.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	res, err := s.Run(context.Background(), newLedger(t))
	require.NoError(t, err)
	assert.Equal(t, "backups/20240506-070809/accounts.json", res.AccountsKey)
	assert.Equal(t, "backups/20240506-070809/summary.json", res.SummaryKey)
	assert.Equal(t, 2, res.Accounts)

	var accounts []economy.Account
	require.NoError(t, json.Unmarshal(bucket.objects[res.AccountsKey], &accounts))
	require.Len(t, accounts, 2)
	assert.Equal(t, "1", accounts[0].UserID)

	var summary backupSummary
	require.NoError(t, json.Unmarshal(bucket.objects[res.SummaryKey], &summary))
	assert.Equal(t, 2, summary.Users)
	assert.Equal(t, res.AccountsKey, summary.AccountsKey)
}

func TestBackupUploadError(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}, err: errors.New("access denied")}
	s := NewBackupServiceWithClient(bucket, "casino", "")

	_, err := s.Run(context.Background(), newLedger(t))
	assert.ErrorContains(t, err, "access denied")
}

func TestNewBackupServiceDisabled(t *testing.T) {
	_, err := NewBackupService(context.Background(), BackupConfig{})
	assert.ErrorIs(t, err, ErrBackupDisabled)
}
