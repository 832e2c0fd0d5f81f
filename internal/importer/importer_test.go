package importer

import (
	"strings"
	"testing"

	"itam-backend/internal/employee/domain"
	"itam-backend/internal/employee/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const csvHeader = "internetEmail,serialNumber,manufacturerName,modelVersion,assetCondition,managerEmailId\n"

func setupService(t *testing.T) (*Service, repository.EmployeeRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A pooled second connection to :memory: would see an empty
	// database, so pin the pool to one connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Employee{}, &domain.Asset{}))

	repo := repository.NewGormEmployeeRepository(db)
	return NewService(repo), repo
}

func TestImportCreatesEmployeesAndAssets(t *testing.T) {
	svc, repo := setupService(t)

	data := csvHeader +
		"alice@example.com,SN-1,Lenovo,T14,Good,boss@example.com\n" +
		"alice@example.com,SN-2,Apple,MacBook Pro,Good,boss@example.com\n" +
		"bob@example.com,SN-3,Dell,XPS,Good,\n"

	result, err := svc.Import(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, result.EmployeesCreated)
	assert.Equal(t, 0, result.EmployeesUpdated)
	assert.Equal(t, 3, result.AssetsAdded)
	assert.Empty(t, result.Failures)

	alice, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, alice)
	assert.Len(t, alice.Assets, 2)
	assert.Equal(t, "boss@example.com", alice.ManagerEmail())
}

func TestImportIsIdempotent(t *testing.T) {
	svc, repo := setupService(t)

	data := csvHeader +
		"alice@example.com,SN-1,Lenovo,T14,Good,\n" +
		"bob@example.com,SN-2,Dell,XPS,Good,\n"

	_, err := svc.Import(strings.NewReader(data))
	require.NoError(t, err)

	result, err := svc.Import(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 0, result.EmployeesCreated)
	assert.Equal(t, 0, result.EmployeesUpdated)
	assert.Equal(t, 0, result.AssetsAdded)
	assert.Empty(t, result.Failures)

	alice, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Len(t, alice.Assets, 1)
}

func TestImportMergesUnionAcrossUploads(t *testing.T) {
	svc, repo := setupService(t)

	first := csvHeader + "alice@example.com,SN-1,Lenovo,T14,Good,\n"
	second := csvHeader +
		"alice@example.com,SN-1,Lenovo,T14,Good,\n" +
		"alice@example.com,SN-2,Apple,MacBook Pro,Good,\n"

	_, err := svc.Import(strings.NewReader(first))
	require.NoError(t, err)

	result, err := svc.Import(strings.NewReader(second))
	require.NoError(t, err)
	assert.Equal(t, 1, result.EmployeesUpdated)
	assert.Equal(t, 1, result.AssetsAdded)

	alice, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	require.Len(t, alice.Assets, 2)

	serials := map[string]bool{}
	for _, a := range alice.Assets {
		require.False(t, serials[a.SerialNumber], "duplicate serial %s", a.SerialNumber)
		serials[a.SerialNumber] = true
	}
	assert.True(t, serials["SN-1"])
	assert.True(t, serials["SN-2"])
}

func TestImportMergeOrderIrrelevant(t *testing.T) {
	uploadA := csvHeader + "alice@example.com,SN-1,Lenovo,T14,Good,\n"
	uploadB := csvHeader + "alice@example.com,SN-2,Apple,MacBook Pro,Good,\n"

	for _, order := range [][]string{{uploadA, uploadB}, {uploadB, uploadA}} {
		svc, repo := setupService(t)
		for _, upload := range order {
			_, err := svc.Import(strings.NewReader(upload))
			require.NoError(t, err)
		}

		alice, err := repo.FindByEmail("alice@example.com")
		require.NoError(t, err)
		assert.Len(t, alice.Assets, 2)
	}
}

func TestImportSkipsDuplicateSerialWithinUpload(t *testing.T) {
	svc, repo := setupService(t)

	data := csvHeader +
		"alice@example.com,SN-1,Lenovo,T14,Good,\n" +
		"alice@example.com,SN-1,Apple,MacBook Pro,Bad,\n"

	result, err := svc.Import(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, result.AssetsAdded)

	alice, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	require.Len(t, alice.Assets, 1)
	// First occurrence wins.
	assert.Equal(t, "Lenovo", alice.Assets[0].ManufacturerName)
}

func TestImportNeverModifiesExistingAssets(t *testing.T) {
	svc, repo := setupService(t)

	_, err := svc.Import(strings.NewReader(csvHeader + "alice@example.com,SN-1,Lenovo,T14,Good,\n"))
	require.NoError(t, err)

	// Re-upload the same serial with different ground truth.
	_, err = svc.Import(strings.NewReader(csvHeader + "alice@example.com,SN-1,Apple,MacBook Pro,Bad,\n"))
	require.NoError(t, err)

	alice, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	require.Len(t, alice.Assets, 1)
	assert.Equal(t, "Lenovo", alice.Assets[0].ManufacturerName)
}

func TestImportRejectsMissingRequiredColumn(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Import(strings.NewReader("internetEmail,manufacturerName\nalice@example.com,Lenovo\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestImportCollectsRowErrorsAndAborts(t *testing.T) {
	svc, repo := setupService(t)

	data := csvHeader +
		"alice@example.com,SN-1,Lenovo,T14,Good,\n" +
		"not-an-email,SN-2,Dell,XPS,Good,\n" +
		"carol@example.com,SN-3,HP,EliteBook,Good,not-an-email-either\n"

	_, err := svc.Import(strings.NewReader(data))
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.RowErrors, 2)
	assert.Equal(t, 2, verr.RowErrors[0].Row)
	assert.Equal(t, 3, verr.RowErrors[1].Row)

	// All-or-nothing: the valid row must not have been persisted.
	alice, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Nil(t, alice)
}

func TestImportEmptyFile(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Import(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = svc.Import(strings.NewReader(csvHeader))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestImportParsesCampaignColumns(t *testing.T) {
	svc, repo := setupService(t)

	data := "internetEmail,serialNumber,emailSent,lastEmailSentAt,managerEmailSent\n" +
		"alice@example.com,SN-1,true,2025-01-15T10:00:00Z,false\n"

	_, err := svc.Import(strings.NewReader(data))
	require.NoError(t, err)

	alice, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.True(t, alice.EmailSent)
	require.NotNil(t, alice.LastEmailSentAt)
	assert.False(t, alice.ManagerEmailSent)
}

func TestImportDoesNotClobberCampaignFlagsOnMerge(t *testing.T) {
	svc, repo := setupService(t)

	_, err := svc.Import(strings.NewReader("internetEmail,serialNumber,emailSent\nalice@example.com,SN-1,true\n"))
	require.NoError(t, err)

	// Second upload claims emailSent=false; existing state wins.
	_, err = svc.Import(strings.NewReader("internetEmail,serialNumber,emailSent\nalice@example.com,SN-2,false\n"))
	require.NoError(t, err)

	alice, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.True(t, alice.EmailSent)
	assert.Len(t, alice.Assets, 2)
}
