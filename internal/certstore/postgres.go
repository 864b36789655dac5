// Package certstore is a Postgres-backed reference implementation of
// identity.KeyStore, persisting the PEM material of authenticated and
// remote users (SPEC_FULL.md §3). The protocol core never calls it
// directly; it exists for bootstrap tooling and the demo gateway.
package certstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/telekom-mms/go-it-crypto/pkg/identity"
	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

// Store is a pgxpool-backed identity.KeyStore.
type Store struct {
	pool *pgxpool.Pool
}

// New connects a Store to dsn. Returns nil, nil if dsn is empty, matching
// internal/platform/redis.New's "absent configuration is not an error"
// convention.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Migrate creates the users table if it does not already exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS identity_users (
			id                text PRIMARY KEY,
			verify_cert_pem   bytea NOT NULL,
			encrypt_cert_pem  bytea NOT NULL,
			monitor           boolean NOT NULL DEFAULT false,
			signing_key_pem   bytea,
			decryption_key_pem bytea
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate identity_users: %w", err)
	}
	return nil
}

// Health checks connectivity.
func (s *Store) Health(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// SaveAuthenticatedUser upserts user, including its private key material.
func (s *Store) SaveAuthenticatedUser(ctx context.Context, user identity.AuthenticatedUser) error {
	signingKeyPEM, err := identity.EncodeSigningKeyPEM(user.SigningKey)
	if err != nil {
		return err
	}
	decryptionKeyPEM, err := identity.EncodeDecryptionKeyPEM(user.DecryptionKey)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO identity_users (id, verify_cert_pem, encrypt_cert_pem, monitor, signing_key_pem, decryption_key_pem)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			verify_cert_pem = EXCLUDED.verify_cert_pem,
			encrypt_cert_pem = EXCLUDED.encrypt_cert_pem,
			monitor = EXCLUDED.monitor,
			signing_key_pem = EXCLUDED.signing_key_pem,
			decryption_key_pem = EXCLUDED.decryption_key_pem
	`,
		user.ID,
		identity.EncodeCertificatePEM(user.VerificationCertificate),
		identity.EncodeCertificatePEM(user.EncryptionCertificate),
		user.Monitor,
		signingKeyPEM,
		decryptionKeyPEM,
	)
	if err != nil {
		return fmt.Errorf("save authenticated user %q: %w", user.ID, err)
	}
	return nil
}

// SaveRemoteUser upserts user's public identity, leaving any existing
// private key material untouched.
func (s *Store) SaveRemoteUser(ctx context.Context, user identity.RemoteUser) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO identity_users (id, verify_cert_pem, encrypt_cert_pem, monitor)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			verify_cert_pem = EXCLUDED.verify_cert_pem,
			encrypt_cert_pem = EXCLUDED.encrypt_cert_pem,
			monitor = EXCLUDED.monitor
	`,
		user.ID,
		identity.EncodeCertificatePEM(user.VerificationCertificate),
		identity.EncodeCertificatePEM(user.EncryptionCertificate),
		user.Monitor,
	)
	if err != nil {
		return fmt.Errorf("save remote user %q: %w", user.ID, err)
	}
	return nil
}

// LoadAuthenticatedUser reads back a user's full identity, including
// private keys, failing with CodeUnknownUser if absent or CodeBadKey if no
// private key material was ever stored for this id.
func (s *Store) LoadAuthenticatedUser(ctx context.Context, id string) (identity.AuthenticatedUser, error) {
	var verifyCertPEM, encryptCertPEM, signingKeyPEM, decryptionKeyPEM []byte
	var monitor bool

	row := s.pool.QueryRow(ctx, `
		SELECT verify_cert_pem, encrypt_cert_pem, monitor, signing_key_pem, decryption_key_pem
		FROM identity_users WHERE id = $1
	`, id)
	if err := row.Scan(&verifyCertPEM, &encryptCertPEM, &monitor, &signingKeyPEM, &decryptionKeyPEM); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identity.AuthenticatedUser{}, protoerr.New(protoerr.CodeUnknownUser, fmt.Sprintf("unknown user %q", id))
		}
		return identity.AuthenticatedUser{}, fmt.Errorf("load authenticated user %q: %w", id, err)
	}
	if signingKeyPEM == nil || decryptionKeyPEM == nil {
		return identity.AuthenticatedUser{}, protoerr.New(protoerr.CodeBadKey, fmt.Sprintf("no private key material stored for %q", id))
	}

	return identity.ImportAuthenticatedUser(id, verifyCertPEM, encryptCertPEM, signingKeyPEM, decryptionKeyPEM, identity.WithMonitor(monitor))
}
