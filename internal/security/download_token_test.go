package security_test

import (
	"testing"
	"time"

	"secure-file-exchange/config"
	"secure-file-exchange/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *security.DownloadTokenService {
	t.Helper()
	codec, err := security.NewDownloadTokenService(&config.DownloadTokenConfig{
		SecretKey: "test-download-secret",
		TokenTTL:  "60s",
	})
	require.NoError(t, err)
	return codec
}

func TestDownloadTokenService_IssueRedeemRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	token, expiresAt, err := codec.Issue("file-uuid-123", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(60*time.Second), expiresAt, 2*time.Second)

	fileUUID, err := codec.Redeem(token)
	assert.NoError(t, err)
	assert.Equal(t, "file-uuid-123", fileUUID)
}

// Токен многоразовый: повторные погашения до истечения срока дают тот же результат
func TestDownloadTokenService_RedeemIsRepeatable(t *testing.T) {
	codec := newTestCodec(t)

	token, _, err := codec.Issue("file-uuid-123", 0)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		fileUUID, err := codec.Redeem(token)
		assert.NoError(t, err)
		assert.Equal(t, "file-uuid-123", fileUUID)
	}
}

func TestDownloadTokenService_ExpiredToken(t *testing.T) {
	codec := newTestCodec(t)

	issuedAt := time.Now()
	codec.WithClock(func() time.Time { return issuedAt })

	token, _, err := codec.Issue("file-uuid-123", 0)
	require.NoError(t, err)

	// через 66 секунд окно в 60 секунд плюс допуск в 5 секунд исчерпаны
	codec.WithClock(func() time.Time { return issuedAt.Add(66 * time.Second) })

	_, err = codec.Redeem(token)
	assert.ErrorIs(t, err, security.ErrTokenExpired)
}

// Допуск на рассинхронизацию часов: токен, истёкший меньше чем на
// TokenLeeway, ещё принимается.
func TestDownloadTokenService_LeewayWindow(t *testing.T) {
	codec := newTestCodec(t)

	issuedAt := time.Now()
	codec.WithClock(func() time.Time { return issuedAt })

	token, _, err := codec.Issue("file-uuid-123", 0)
	require.NoError(t, err)

	codec.WithClock(func() time.Time { return issuedAt.Add(62 * time.Second) })

	fileUUID, err := codec.Redeem(token)
	assert.NoError(t, err)
	assert.Equal(t, "file-uuid-123", fileUUID)
}

func TestDownloadTokenService_TamperedToken(t *testing.T) {
	codec := newTestCodec(t)

	token, _, err := codec.Issue("file-uuid-123", 0)
	require.NoError(t, err)

	// портим один символ полезной нагрузки
	raw := []byte(token)
	mid := len(raw) / 2
	if raw[mid] == 'A' {
		raw[mid] = 'B'
	} else {
		raw[mid] = 'A'
	}

	_, err = codec.Redeem(string(raw))
	assert.ErrorIs(t, err, security.ErrTokenInvalid)
}

func TestDownloadTokenService_WrongSecret(t *testing.T) {
	codec := newTestCodec(t)

	other, err := security.NewDownloadTokenService(&config.DownloadTokenConfig{
		SecretKey: "another-secret",
		TokenTTL:  "60s",
	})
	require.NoError(t, err)

	token, _, err := other.Issue("file-uuid-123", 0)
	require.NoError(t, err)

	_, err = codec.Redeem(token)
	assert.ErrorIs(t, err, security.ErrTokenInvalid)
}

func TestDownloadTokenService_GarbageToken(t *testing.T) {
	codec := newTestCodec(t)

	for _, tokenStr := range []string{"", "not-a-token", "a.b.c", "eyJhbGciOiJIUzUxMiJ9..."} {
		_, err := codec.Redeem(tokenStr)
		assert.ErrorIs(t, err, security.ErrTokenInvalid)
	}
}

// Два токена на один файл, выданные в один момент, различимы благодаря nonce
func TestDownloadTokenService_NonceUniqueness(t *testing.T) {
	codec := newTestCodec(t)

	fixed := time.Now()
	codec.WithClock(func() time.Time { return fixed })

	first, _, err := codec.Issue("file-uuid-123", 0)
	require.NoError(t, err)
	second, _, err := codec.Issue("file-uuid-123", 0)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDownloadTokenService_CustomValidity(t *testing.T) {
	codec := newTestCodec(t)

	issuedAt := time.Now()
	codec.WithClock(func() time.Time { return issuedAt })

	token, expiresAt, err := codec.Issue("file-uuid-123", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(5*time.Minute).Unix(), expiresAt.Unix())

	codec.WithClock(func() time.Time { return issuedAt.Add(4 * time.Minute) })
	fileUUID, err := codec.Redeem(token)
	assert.NoError(t, err)
	assert.Equal(t, "file-uuid-123", fileUUID)
}

func TestNewDownloadTokenService_BadTTL(t *testing.T) {
	_, err := security.NewDownloadTokenService(&config.DownloadTokenConfig{
		SecretKey: "secret",
		TokenTTL:  "sixty seconds",
	})
	assert.Error(t, err)
}
