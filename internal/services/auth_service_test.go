// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/farmagate/pharmacy-backend/internal/config"
	"github.com/farmagate/pharmacy-backend/internal/models"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.AccessTokenTTL = 1
	cfg.JWT.RefreshTokenTTL = 24
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	suite.service = NewAuthService(suite.db, cfg, &stubFieldValidator{})
}

func (suite *AuthServiceTestSuite) TestRegisterAndLogin() {
	user, err := suite.service.Register(&RegisterRequest{
		Username: "farmaceuta",
		Password: "clave-segura-1",
		Role:     models.RoleWarehouse,
	})
	suite.Require().NoError(err)
	suite.Equal(models.RoleWarehouse, user.Role)
	suite.NotEqual("clave-segura-1", user.PasswordHash)

	resp, err := suite.service.Login(&LoginRequest{
		Username: "farmaceuta",
		Password: "clave-segura-1",
	})
	suite.NoError(err)
	suite.NotEmpty(resp.AccessToken)
	suite.NotEmpty(resp.RefreshToken)
	suite.Equal("Bearer", resp.TokenType)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	suite.NoError(err)
	suite.Equal("farmaceuta", claims.Username)
	suite.Equal(string(models.RoleWarehouse), claims.Role)
}

func (suite *AuthServiceTestSuite) TestRegisterDuplicateUsername() {
	createTestUser(suite.T(), suite.db, "repetido", models.RoleCustomer, nil)

	_, err := suite.service.Register(&RegisterRequest{
		Username: "repetido",
		Password: "clave-segura-1",
		Role:     models.RoleCustomer,
	})
	suite.ErrorIs(err, ErrUsernameTaken)
}

func (suite *AuthServiceTestSuite) TestRegisterInvalidRole() {
	_, err := suite.service.Register(&RegisterRequest{
		Username: "usuario",
		Password: "clave-segura-1",
		Role:     models.UserRole("superuser"),
	})
	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestLoginWrongPassword() {
	createTestUser(suite.T(), suite.db, "cliente", models.RoleCustomer, nil)

	_, err := suite.service.Login(&LoginRequest{
		Username: "cliente",
		Password: "incorrecta",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLoginUnknownUser() {
	_, err := suite.service.Login(&LoginRequest{
		Username: "fantasma",
		Password: "loquesea1",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLoginDisabledUser() {
	user := createTestUser(suite.T(), suite.db, "bloqueado", models.RoleCustomer, nil)
	suite.NoError(suite.db.Model(user).Update("disabled", true).Error)

	_, err := suite.service.Login(&LoginRequest{
		Username: "bloqueado",
		Password: "testpass123",
	})
	suite.ErrorIs(err, ErrUserDisabled)
}

func (suite *AuthServiceTestSuite) TestRefreshToken() {
	user := createTestUser(suite.T(), suite.db, "renovador", models.RoleCustomer, nil)

	resp, err := suite.service.Login(&LoginRequest{
		Username: "renovador",
		Password: "testpass123",
	})
	suite.Require().NoError(err)

	refreshed, err := suite.service.RefreshToken(resp.RefreshToken)
	suite.NoError(err)
	suite.NotEmpty(refreshed.AccessToken)
	suite.Equal(user.ID, refreshed.User.ID)

	_, err = suite.service.RefreshToken("not-a-token")
	suite.Error(err)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
