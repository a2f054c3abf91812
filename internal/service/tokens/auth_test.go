package tokens

import (
	"testing"
	"time"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	key := []byte("secret")
	token, err := GenerateUserJWT(42, domain.RoleVendor, time.Hour, key)
	require.NoError(t, err)

	claims, err := ValidateUserJWT(token, key)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.ID)
	assert.Equal(t, domain.RoleVendor, claims.Role)
}

func TestValidateErrors(t *testing.T) {
	key := []byte("secret")

	expired, err := GenerateUserJWT(1, domain.RoleCustomer, -time.Minute, key)
	require.NoError(t, err)
	_, err = ValidateUserJWT(expired, key)
	require.ErrorIs(t, err, ErrTokenExpired)

	valid, err := GenerateUserJWT(1, domain.RoleCustomer, time.Hour, key)
	require.NoError(t, err)
	_, err = ValidateUserJWT(valid, []byte("other"))
	require.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, UserClaims{ID: 1})
	noneStr, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ValidateUserJWT(noneStr, key)
	require.Error(t, err)

	zeroID, err := generateJWT(UserClaims{}, key)
	require.NoError(t, err)
	_, err = ValidateUserJWT(zeroID, key)
	require.ErrorIs(t, err, ErrInvalidClaims)
}
