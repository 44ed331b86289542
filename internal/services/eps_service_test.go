// internal/services/eps_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/farmagate/pharmacy-backend/internal/models"
)

type EPSServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *EPSService
}

func (suite *EPSServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.service = NewEPSService(suite.db)
}

func (suite *EPSServiceTestSuite) TestCreateEPS() {
	eps, err := suite.service.CreateEPS(&CreateEPSRequest{
		Name:     "Nueva EPS",
		Discount: 12.5,
	})

	suite.NoError(err)
	suite.Equal("Nueva EPS", eps.Name)
	suite.Equal(12.5, eps.Discount)
}

func (suite *EPSServiceTestSuite) TestCreateEPSDuplicateName() {
	createTestEPS(suite.T(), suite.db, "Sura", 10)

	_, err := suite.service.CreateEPS(&CreateEPSRequest{Name: "Sura", Discount: 5})
	suite.ErrorIs(err, ErrEPSExists)
}

func (suite *EPSServiceTestSuite) TestCreateEPSRejectsInvalidDiscount() {
	_, err := suite.service.CreateEPS(&CreateEPSRequest{Name: "Mala", Discount: 150})
	suite.Error(err)
}

func (suite *EPSServiceTestSuite) TestUpdateEPS() {
	eps := createTestEPS(suite.T(), suite.db, "Sanitas", 10)

	newDiscount := 18.0
	updated, err := suite.service.UpdateEPS(eps.ID, &UpdateEPSRequest{Discount: &newDiscount})
	suite.NoError(err)

	var stored models.EPS
	suite.NoError(suite.db.First(&stored, "id = ?", updated.ID).Error)
	suite.Equal(18.0, stored.Discount)
}

func (suite *EPSServiceTestSuite) TestAssignEPS() {
	eps := createTestEPS(suite.T(), suite.db, "Compensar", 15)
	user := createTestUser(suite.T(), suite.db, "cliente", models.RoleCustomer, nil)

	assigned, err := suite.service.AssignEPS(&AssignEPSRequest{
		UserID: user.ID,
		EPSID:  eps.ID,
	})

	suite.NoError(err)
	suite.Require().NotNil(assigned.EPSID)
	suite.Equal(eps.ID, *assigned.EPSID)

	var stored models.User
	suite.NoError(suite.db.First(&stored, "id = ?", user.ID).Error)
	suite.Require().NotNil(stored.EPSID)
	suite.Equal(eps.ID, *stored.EPSID)
}

func (suite *EPSServiceTestSuite) TestAssignEPSUnknownTargets() {
	eps := createTestEPS(suite.T(), suite.db, "Famisanar", 8)
	user := createTestUser(suite.T(), suite.db, "cliente", models.RoleCustomer, nil)

	_, err := suite.service.AssignEPS(&AssignEPSRequest{UserID: user.ID, EPSID: uuid.New()})
	suite.ErrorIs(err, ErrEPSNotFound)

	_, err = suite.service.AssignEPS(&AssignEPSRequest{UserID: uuid.New(), EPSID: eps.ID})
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *EPSServiceTestSuite) TestDeleteEPSDetachesAffiliates() {
	eps := createTestEPS(suite.T(), suite.db, "Coosalud", 10)
	user := createTestUser(suite.T(), suite.db, "afiliado", models.RoleCustomer, &eps.ID)

	suite.NoError(suite.service.DeleteEPS(eps.ID))

	var stored models.User
	suite.NoError(suite.db.First(&stored, "id = ?", user.ID).Error)
	suite.Nil(stored.EPSID)

	_, err := suite.service.GetEPS(eps.ID)
	suite.ErrorIs(err, ErrEPSNotFound)
}

func TestEPSServiceSuite(t *testing.T) {
	suite.Run(t, new(EPSServiceTestSuite))
}
