package app

import (
	"context"
	"os"
	"testing"

	"enrolldash/adapters/memory"
	"enrolldash/internal/config"
	"enrolldash/internal/errors"
	"enrolldash/internal/uploads"
	"enrolldash/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const enrollmentCSV = "Year,Term,Enrolled,Retention Rate (%),Student Satisfaction (%),Engineering Enrolled,Business Enrolled,Arts Enrolled,Science Enrolled\n" +
	"2020,Spring,800,82,75,200,200,200,200\n" +
	"2020,Fall,900,83,76,250,250,200,200\n" +
	"2021,Spring,1000,84,77,300,200,200,300\n"

const salesCSV = "Product Code,Sales\nP001,10\nP002,30\nZ999,100\nP001,5\n"

type mockRunRepository struct {
	mock.Mock
}

func (m *mockRunRepository) Record(ctx context.Context, run *models.AnalysisRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockRunRepository) ListRecent(ctx context.Context, limit int) ([]*models.AnalysisRun, error) {
	args := m.Called(ctx, limit)
	runs, _ := args.Get(0).([]*models.AnalysisRun)
	return runs, args.Error(1)
}

func newService(t *testing.T) *DashboardService {
	t.Helper()
	cfg := config.Default()
	cfg.Charts.Width, cfg.Charts.Height = 400, 300
	return NewDashboardService(cfg, memory.NewRunRepository(10), nil)
}

func TestEnrollment_Succeeds(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	result, err := svc.Enrollment(ctx, Upload{Filename: "enrollment.csv", Content: []byte(enrollmentCSV)}, true)
	require.NoError(t, err)
	require.NotNil(t, result.Report)
	assert.Len(t, result.Report.Years, 2)
	assert.Len(t, result.Charts, 3)
	assert.Equal(t, models.RunStatusSucceeded, result.Run.Status)
	assert.Equal(t, 3, result.Run.RowCount)
	assert.Equal(t, 2, result.Run.ResultCount)

	runs, err := svc.RecentRuns(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, result.Run.ID, runs[0].ID)
}

func TestEnrollment_SingleYear(t *testing.T) {
	csv := "Year,Term,Enrolled,Retention Rate (%),Student Satisfaction (%),Engineering Enrolled,Business Enrolled,Arts Enrolled,Science Enrolled\n" +
		"2020,Spring,800,82,75,200,200,200,200\n" +
		"2020,Fall,900,83,76,250,250,200,200\n"

	result, err := newService(t).Enrollment(context.Background(), Upload{Filename: "single.csv", Content: []byte(csv)}, true)
	require.NoError(t, err)
	require.Len(t, result.Report.Years, 1)
	assert.Equal(t, 2020, result.Report.Years[0].Year)
	assert.Len(t, result.Charts, 3)
	assert.Equal(t, models.RunStatusSucceeded, result.Run.Status)
}

func TestEnrollment_FailuresAreRecorded(t *testing.T) {
	tests := []struct {
		name   string
		upload Upload
		code   string
	}{
		{"empty file", Upload{Filename: "empty.csv"}, errors.CodeEmptyFile},
		{"missing column", Upload{Filename: "bad.csv", Content: []byte("Year,Term\n2020,Spring\n")}, errors.CodeMissingColumn},
		{"unsupported type", Upload{Filename: "notes.txt", Content: []byte("hello")}, errors.CodeUnsupportedFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t)
			ctx := context.Background()

			result, err := svc.Enrollment(ctx, tt.upload, true)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.code, errors.GetCode(err))

			runs, err := svc.RecentRuns(ctx, 5)
			require.NoError(t, err)
			require.Len(t, runs, 1)
			assert.Equal(t, models.RunStatusFailed, runs[0].Status)
			assert.Equal(t, tt.code, runs[0].ErrorCode)
		})
	}
}

func TestEnrollment_HistoryFailureDoesNotFailAnalysis(t *testing.T) {
	repo := new(mockRunRepository)
	repo.On("Record", mock.Anything, mock.AnythingOfType("*models.AnalysisRun")).Return(assert.AnError).Once()

	svc := NewDashboardService(config.Default(), repo, nil)
	result, err := svc.Enrollment(context.Background(), Upload{Filename: "enrollment.csv", Content: []byte(enrollmentCSV)}, false)
	require.NoError(t, err)
	assert.Empty(t, result.Charts)
	repo.AssertExpectations(t)
}

func TestEnrollment_ArchivesUpload(t *testing.T) {
	cfg := config.Default()
	svc := NewDashboardService(cfg, memory.NewRunRepository(10), uploads.NewArchive(t.TempDir()))

	result, err := svc.Enrollment(context.Background(), Upload{Filename: "enrollment.csv", Content: []byte(enrollmentCSV)}, false)
	require.NoError(t, err)
	require.NotEmpty(t, result.Run.ArchivePath)

	content, err := os.ReadFile(result.Run.ArchivePath)
	require.NoError(t, err)
	assert.Equal(t, enrollmentCSV, string(content))
}

func TestProducts(t *testing.T) {
	svc := newService(t)

	result, err := svc.Products(context.Background(), Upload{Filename: "sales.csv", Content: []byte(salesCSV)}, true)
	require.NoError(t, err)
	require.Len(t, result.Report.Totals, 2)
	assert.Equal(t, "P002", result.Report.Totals[0].Code)
	assert.Equal(t, 15.0, result.Report.Totals[1].Sales)
	assert.Len(t, result.Charts, 1)
	assert.Equal(t, models.RunKindProducts, result.Run.Kind)
}

func TestRecentRuns_ListFailure(t *testing.T) {
	repo := new(mockRunRepository)
	repo.On("ListRecent", mock.Anything, 3).Return(nil, assert.AnError)

	svc := NewDashboardService(config.Default(), repo, nil)
	_, err := svc.RecentRuns(context.Background(), 3)
	assert.ErrorIs(t, err, assert.AnError)
	repo.AssertExpectations(t)
}
