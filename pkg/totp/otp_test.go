package totp_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrymomot/securevault/pkg/keygen"
	"github.com/dmitrymomot/securevault/pkg/totp"
	"github.com/dmitrymomot/securevault/pkg/vaulterr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleSecret = "JBSWY3DPEHPK3PXP"

func TestGenerateSecretKey(t *testing.T) {
	t.Parallel()
	secret, err := totp.GenerateSecretKey()
	require.NoError(t, err)
	assert.Len(t, secret, keygen.DefaultSecretLength)
	assert.Regexp(t, totp.ValidateSecretKeyRegex, secret)
	assert.NoError(t, totp.ValidateSecret(secret))

	_, err = totp.GenerateSecretKeyWithLength(12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, vaulterr.ErrConfiguration))
}

func TestDecodeSecret(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"canonical", exampleSecret, false},
		{"lowercase", "jbswy3dpehpk3pxp", false},
		{"grouped with spaces", "JBSW Y3DP EHPK 3PXP", false},
		{"padded", "JBSWY3DPEHPK3PXP======", false},
		{"empty", "", true},
		{"invalid characters", "invalid-base32!@#$", true},
		{"digits outside alphabet", "JBSWY3DPEHPK3PX1", true},
		{"impossible length", "JBS", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			key, err := totp.DecodeSecret(tt.secret)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, vaulterr.ErrInvalidSecretFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []byte("Hello!\xde\xad\xbe\xef"), key)
		})
	}
}

func TestNormalizeSecret(t *testing.T) {
	t.Parallel()
	assert.Equal(t, exampleSecret, totp.NormalizeSecret(" jbsw y3dp\tehpk 3pxp== "))
}

func TestParamsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  totp.Params
		wantErr error
	}{
		{"defaults", totp.DefaultParams(), nil},
		{"sha256 8 digits", totp.Params{Algorithm: "SHA256", Digits: 8, Period: 60}, nil},
		{"lowercase algorithm", totp.Params{Algorithm: "sha512", Digits: 6, Period: 30}, nil},
		{"zero period", totp.Params{Algorithm: "SHA1", Digits: 6, Period: 0}, totp.ErrInvalidPeriod},
		{"negative period", totp.Params{Algorithm: "SHA1", Digits: 6, Period: -30}, totp.ErrInvalidPeriod},
		{"too few digits", totp.Params{Algorithm: "SHA1", Digits: 4, Period: 30}, totp.ErrInvalidDigits},
		{"too many digits", totp.Params{Algorithm: "SHA1", Digits: 9, Period: 30}, totp.ErrInvalidDigits},
		{"unknown algorithm", totp.Params{Algorithm: "MD5", Digits: 6, Period: 30}, totp.ErrUnsupportedAlgorithm},
		{"zero value", totp.Params{}, totp.ErrUnsupportedAlgorithm},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.params.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.True(t, errors.Is(err, vaulterr.ErrConfiguration))
		})
	}
}

func TestCounterFloorsBeforeEpoch(t *testing.T) {
	t.Parallel()
	p := totp.DefaultParams()
	assert.Equal(t, int64(0), p.Counter(time.Unix(29, 0)))
	assert.Equal(t, int64(1), p.Counter(time.Unix(30, 0)))
	assert.Equal(t, int64(-1), p.Counter(time.Unix(-1, 0)))
	assert.Equal(t, int64(-1), p.Counter(time.Unix(-30, 0)))
	assert.Equal(t, int64(-2), p.Counter(time.Unix(-31, 0)))
}

// RFC 4226 Appendix D.
func TestGenerateHOTPVectors(t *testing.T) {
	t.Parallel()
	key := []byte("12345678901234567890")
	want := []int{755224, 287082, 359152, 969429, 338314, 254676, 287922, 162583, 399871, 520489}

	for counter, code := range want {
		got, err := totp.GenerateHOTP(key, int64(counter), 6, "SHA1")
		require.NoError(t, err)
		assert.Equal(t, code, got, "counter %d", counter)
	}
}

func TestGenerateHOTPRejectsBadInput(t *testing.T) {
	t.Parallel()
	_, err := totp.GenerateHOTP([]byte("k"), 0, 6, "MD5")
	assert.True(t, errors.Is(err, vaulterr.ErrConfiguration))

	_, err = totp.GenerateHOTP([]byte("k"), 0, 10, "SHA1")
	assert.True(t, errors.Is(err, totp.ErrInvalidDigits))
}

// RFC 6238 Appendix B.
func TestGenerateCodeRFC6238Vectors(t *testing.T) {
	t.Parallel()

	secrets := map[string]string{
		"SHA1":   keygen.Base32.EncodeToString([]byte("12345678901234567890")),
		"SHA256": keygen.Base32.EncodeToString([]byte("12345678901234567890123456789012")),
		"SHA512": keygen.Base32.EncodeToString([]byte(strings.Repeat("1234567890", 6) + "1234")),
	}

	tests := []struct {
		unix   int64
		sha1   string
		sha256 string
		sha512 string
	}{
		{59, "94287082", "46119246", "90693936"},
		{1111111109, "07081804", "68084774", "25091201"},
		{1111111111, "14050471", "67062674", "99943326"},
		{1234567890, "89005924", "91819424", "93441116"},
		{2000000000, "69279037", "90698825", "38618901"},
		{20000000000, "65353130", "77737706", "47863826"},
	}

	for _, tt := range tests {
		at := time.Unix(tt.unix, 0)
		for alg, want := range map[string]string{"SHA1": tt.sha1, "SHA256": tt.sha256, "SHA512": tt.sha512} {
			params := totp.Params{Algorithm: alg, Digits: 8, Period: 30}
			got, err := totp.GenerateCode(secrets[alg], params, at)
			require.NoError(t, err)
			assert.Equal(t, want, got, "%s at %d", alg, tt.unix)
			assert.True(t, totp.Verify(want, secrets[alg], params, at))
		}
	}
}

func TestGenerateCodeIsDeterministic(t *testing.T) {
	t.Parallel()
	at := time.Unix(1_700_000_000, 0)

	first, err := totp.GenerateCode(exampleSecret, totp.DefaultParams(), at)
	require.NoError(t, err)
	assert.Len(t, first, totp.DefaultDigits)

	for j := 0; j < 10; j++ {
		again, err := totp.GenerateCode(exampleSecret, totp.DefaultParams(), at)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// Case and grouping of the secret do not change the code.
	lower, err := totp.GenerateCode("jbsw y3dp ehpk 3pxp", totp.DefaultParams(), at)
	require.NoError(t, err)
	assert.Equal(t, first, lower)
}

func TestGenerateCodeErrors(t *testing.T) {
	t.Parallel()

	_, err := totp.GenerateCode(exampleSecret, totp.Params{Algorithm: "SHA1", Digits: 6, Period: 0}, time.Now())
	assert.True(t, errors.Is(err, vaulterr.ErrConfiguration))

	_, err = totp.GenerateCode("not base32!", totp.DefaultParams(), time.Now())
	assert.True(t, errors.Is(err, vaulterr.ErrInvalidSecretFormat))
}

func TestVerifyToleranceWindow(t *testing.T) {
	t.Parallel()
	params := totp.DefaultParams()
	period := time.Duration(params.Period) * time.Second
	ref := time.Unix(1_700_000_010, 0)

	codeAt := func(at time.Time) string {
		code, err := totp.GenerateCode(exampleSecret, params, at)
		require.NoError(t, err)
		return code
	}

	tests := []struct {
		name string
		code string
		want bool
	}{
		{"current step", codeAt(ref), true},
		{"previous step", codeAt(ref.Add(-period)), true},
		{"next step", codeAt(ref.Add(period)), true},
		{"two steps back", codeAt(ref.Add(-2 * period)), false},
		{"two steps ahead", codeAt(ref.Add(2 * period)), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, totp.Verify(tt.code, exampleSecret, params, ref))
		})
	}
}

func TestVerifyExampleScenario(t *testing.T) {
	t.Parallel()
	params := totp.DefaultParams()
	generatedAt := time.Unix(1_700_000_000, 0)

	code, err := totp.GenerateCode(exampleSecret, params, generatedAt)
	require.NoError(t, err)

	assert.True(t, totp.Verify(code, exampleSecret, params, generatedAt.Add(25*time.Second)))
	assert.False(t, totp.Verify(code, exampleSecret, params, generatedAt.Add(65*time.Second)))
}

func TestVerifyRejectsMalformedInput(t *testing.T) {
	t.Parallel()
	params := totp.DefaultParams()
	now := time.Unix(1_700_000_000, 0)
	valid, err := totp.GenerateCode(exampleSecret, params, now)
	require.NoError(t, err)

	tests := []struct {
		name   string
		code   string
		secret string
		params totp.Params
	}{
		{"empty code", "", exampleSecret, params},
		{"short code", valid[:5], exampleSecret, params},
		{"long code", valid + "0", exampleSecret, params},
		{"letters", "12345a", exampleSecret, params},
		{"inner space", valid[:3] + " " + valid[3:], exampleSecret, params},
		{"signed number", "+12345", exampleSecret, params},
		{"unicode digits", "١٢٣٤٥٦", exampleSecret, params},
		{"malformed secret", valid, "invalid-base32!@#$", params},
		{"empty secret", valid, "", params},
		{"zero period", valid, exampleSecret, totp.Params{Algorithm: "SHA1", Digits: 6}},
		{"negative period", valid, exampleSecret, totp.Params{Algorithm: "SHA1", Digits: 6, Period: -30}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.NotPanics(t, func() {
				assert.False(t, totp.Verify(tt.code, tt.secret, tt.params, now))
			})
		})
	}

	// Surrounding whitespace from copy and paste is tolerated.
	assert.True(t, totp.Verify(" "+valid+"\n", exampleSecret, params, now))
}

func TestValidateUsesCurrentTime(t *testing.T) {
	t.Parallel()
	secret, err := totp.GenerateSecretKey()
	require.NoError(t, err)

	code, err := totp.GenerateCode(secret, totp.DefaultParams(), time.Now())
	require.NoError(t, err)

	assert.True(t, totp.Validate(code, secret))
	assert.False(t, totp.Validate("abcdef", secret))
	assert.False(t, totp.Validate(code, "%%%"))
}

func TestEngine(t *testing.T) {
	t.Parallel()

	_, err := totp.NewEngine(totp.Params{Algorithm: "SHA1", Digits: 6, Period: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, vaulterr.ErrConfiguration))

	now := time.Unix(1_700_000_000, 0)
	params := totp.Params{Algorithm: "SHA256", Digits: 8, Period: 60}
	engine, err := totp.NewEngine(params, totp.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	assert.Equal(t, params, engine.Params())

	code, err := engine.Generate(exampleSecret)
	require.NoError(t, err)
	assert.Len(t, code, 8)
	assert.True(t, engine.Verify(code, exampleSecret))

	// A code produced with other parameters does not verify.
	sha1Code, err := totp.GenerateCode(exampleSecret, totp.DefaultParams(), now)
	require.NoError(t, err)
	assert.False(t, engine.Verify(sha1Code, exampleSecret))

	now = now.Add(3 * time.Minute)
	assert.False(t, engine.Verify(code, exampleSecret))
}
