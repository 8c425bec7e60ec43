package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"github.com/disgoorg/casino-bot/casinobot/config"
	"github.com/disgoorg/casino-bot/casinobot/economy"
)

var ErrBackupDisabled = errors.New("backups are not configured")

type BackupConfig struct {
	Enabled  bool   `toml:"enabled"`
	Key      string `toml:"key" env:"KEY"`
	Secret   string `toml:"secret" env:"SECRET"`
	Region   string `toml:"region"`
	Bucket   string `toml:"bucket"`
	Endpoint string `toml:"endpoint"`
	Prefix   string `toml:"prefix"`
}

// ObjectPutter is the part of the S3 client the backup needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// AccountSource provides the data written to a backup.
type AccountSource interface {
	Snapshot(ctx context.Context) ([]*economy.Account, error)
	Stats(ctx context.Context) (economy.Stats, error)
}

type BackupService struct {
	client ObjectPutter
	bucket string
	prefix string
	now    func() time.Time
}

type BackupResult struct {
	AccountsKey string
	SummaryKey  string
	Accounts    int
	Bytes       int
	Took        time.Duration
}

type backupSummary struct {
	TakenAt      time.Time `json:"taken_at"`
	Users        int       `json:"users"`
	Banned       int       `json:"banned"`
	TotalBalance int64     `json:"total_balance"`
	TotalXP      int64     `json:"total_xp"`
	GamesPlayed  int64     `json:"games_played"`
	GamesWon     int64     `json:"games_won"`
	AccountsKey  string    `json:"accounts_key"`
}

func NewBackupService(ctx context.Context, cfg BackupConfig) (*BackupService, error) {
	if !cfg.Enabled {
		return nil, ErrBackupDisabled
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load S3 config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewBackupServiceWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

func NewBackupServiceWithClient(client ObjectPutter, bucket, prefix string) *BackupService {
	return &BackupService{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
	}
}

func (s *BackupService) key(stamp, name string) string {
	return path.Join(s.prefix, stamp, name)
}

// Run uploads a JSON dump of every account plus a summary next to it.
func (s *BackupService) Run(ctx context.Context, src AccountSource) (*BackupResult, error) {
	ctx, cancel := context.WithTimeout(ctx, config.BackupTimeout)
	defer cancel()

	start := s.now()
	stamp := start.UTC().Format("20060102-150405")

	var (
		accounts []*economy.Account
		stats    economy.Stats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = src.Snapshot(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = src.Stats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}

	body, err := json.Marshal(accounts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode accounts: %w", err)
	}
	res := &BackupResult{
		AccountsKey: s.key(stamp, "accounts.json"),
		SummaryKey:  s.key(stamp, "summary.json"),
		Accounts:    len(accounts),
		Bytes:       len(body),
	}
	summary, err := json.Marshal(backupSummary{
		TakenAt:      start.UTC(),
		Users:        stats.Users,
		Banned:       stats.Banned,
		TotalBalance: stats.TotalBalance,
		TotalXP:      stats.TotalXP,
		GamesPlayed:  stats.GamesPlayed,
		GamesWon:     stats.GamesWon,
		AccountsKey:  res.AccountsKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error { return s.put(gctx, res.AccountsKey, body) })
	g.Go(func() error { return s.put(gctx, res.SummaryKey, summary) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Took = s.now().Sub(start)
	slog.Info("Backup uploaded",
		slog.String("type", "sys"),
		slog.String("bucket", s.bucket),
		slog.String("key", res.AccountsKey),
		slog.Int("accounts", res.Accounts),
		slog.Int("bytes", res.Bytes),
		slog.Duration("took", res.Took))
	return res, nil
}

func (s *BackupService) put(ctx context.Context, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (s *BackupService) Bucket() string {
	return s.bucket
}
