package jobs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/dvloznov/statement-ingest/internal/jobs"
	"github.com/dvloznov/statement-ingest/internal/jobs/inmemory"
	"github.com/dvloznov/statement-ingest/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockImporter struct {
	ImportFunc func(ctx context.Context, up pipeline.Upload, reporter pipeline.Reporter) (*domain.Summary, error)
	Uploads    []pipeline.Upload
}

func (m *MockImporter) Import(ctx context.Context, up pipeline.Upload, reporter pipeline.Reporter) (*domain.Summary, error) {
	m.Uploads = append(m.Uploads, up)
	return m.ImportFunc(ctx, up, reporter)
}

type MockFetcher struct {
	FetchFromGCSFunc func(ctx context.Context, gcsURI string) ([]byte, error)
}

func (m *MockFetcher) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	return m.FetchFromGCSFunc(ctx, gcsURI)
}

func savedJob(t *testing.T, store *inmemory.Store, job *jobs.ImportStatementJob) {
	t.Helper()
	require.NoError(t, store.SaveJob(context.Background(), job))
}

func TestProcessor_ReportsProgressIntoStore(t *testing.T) {
	store := inmemory.NewStore()
	job := &jobs.ImportStatementJob{JobID: "j1", UploadID: "up1", UserID: "u1", OwnerName: "Jan Kowalski", FileName: "mbank.csv", Content: []byte("data")}
	savedJob(t, store, job)

	importer := &MockImporter{ImportFunc: func(ctx context.Context, up pipeline.Upload, r pipeline.Reporter) (*domain.Summary, error) {
		require.NoError(t, r.Progress(ctx, 50, 120))

		mid, err := store.GetJob(ctx, "j1")
		require.NoError(t, err)
		assert.Equal(t, 50, mid.Processed)
		assert.Equal(t, 120, mid.Total)

		s := &domain.Summary{UploadID: up.UploadID, CreatedCount: 120, TotalCount: 120}
		require.NoError(t, r.Done(ctx, s))
		return s, nil
	}}

	p := jobs.NewProcessor(importer, nil, store)
	require.NoError(t, p.Handle(context.Background(), job))

	require.Len(t, importer.Uploads, 1)
	up := importer.Uploads[0]
	assert.Equal(t, "up1", up.UploadID)
	assert.Equal(t, "Jan Kowalski", up.OwnerName)
	assert.Equal(t, int64(4), up.Size)

	assert.Equal(t, 120, job.Summary.CreatedCount)
	assert.False(t, job.Retryable)

	stored, err := store.GetJob(context.Background(), "j1")
	require.NoError(t, err)
	require.NotNil(t, stored.Summary)
	assert.Equal(t, 120, stored.Processed)
}

func TestProcessor_FetchesArchivedContent(t *testing.T) {
	store := inmemory.NewStore()
	job := &jobs.ImportStatementJob{JobID: "j1", GCSURI: "gs://bucket/statements/u1/up1/a.csv"}
	savedJob(t, store, job)

	fetcher := &MockFetcher{FetchFromGCSFunc: func(ctx context.Context, uri string) ([]byte, error) {
		assert.Equal(t, job.GCSURI, uri)
		return []byte("csv"), nil
	}}
	importer := &MockImporter{ImportFunc: func(ctx context.Context, up pipeline.Upload, r pipeline.Reporter) (*domain.Summary, error) {
		assert.Equal(t, []byte("csv"), up.Content)
		return &domain.Summary{}, nil
	}}

	require.NoError(t, jobs.NewProcessor(importer, fetcher, store).Handle(context.Background(), job))
}

func TestProcessor_FetchFailureIsRetryable(t *testing.T) {
	job := &jobs.ImportStatementJob{JobID: "j1", GCSURI: "gs://bucket/x.csv"}
	fetcher := &MockFetcher{FetchFromGCSFunc: func(ctx context.Context, uri string) ([]byte, error) {
		return nil, errors.New("503")
	}}
	importer := &MockImporter{}

	err := jobs.NewProcessor(importer, fetcher, inmemory.NewStore()).Handle(context.Background(), job)
	require.Error(t, err)
	assert.True(t, job.Retryable)
	assert.True(t, jobs.IsRetryable(err))
	assert.Empty(t, importer.Uploads)
}

func TestProcessor_ClassifiesImportErrors(t *testing.T) {
	tests := []struct {
		name      string
		kind      pipeline.ErrorKind
		retryable bool
	}{
		{"too large", pipeline.KindTooLarge, false},
		{"permanent", pipeline.KindPersistencePermanent, false},
		{"retryable", pipeline.KindPersistenceRetryable, true},
		{"unknown", pipeline.KindUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &jobs.ImportStatementJob{JobID: "j1", Content: []byte("x")}
			importer := &MockImporter{ImportFunc: func(ctx context.Context, up pipeline.Upload, r pipeline.Reporter) (*domain.Summary, error) {
				return nil, &pipeline.ImportError{Kind: tt.kind, Err: errors.New("cause")}
			}}

			err := jobs.NewProcessor(importer, nil, inmemory.NewStore()).Handle(context.Background(), job)
			require.Error(t, err)
			assert.Equal(t, string(tt.kind), job.ErrorKind)
			assert.Equal(t, tt.retryable, job.Retryable)
			assert.Equal(t, tt.retryable, jobs.IsRetryable(err))
		})
	}
}

func TestProcessor_RejectsJobsWithoutContent(t *testing.T) {
	err := jobs.NewProcessor(&MockImporter{}, nil, nil).Handle(context.Background(), &jobs.ImportStatementJob{JobID: "j1"})
	assert.ErrorContains(t, err, "neither content nor archive URI")
}

type otherJob struct{}

func (otherJob) GetID() string             { return "x" }
func (otherJob) GetType() jobs.JobType     { return "other" }
func (otherJob) GetStatus() jobs.JobStatus { return jobs.JobStatusPending }

func TestProcessor_UnexpectedJobType(t *testing.T) {
	err := jobs.NewProcessor(&MockImporter{}, nil, nil).Handle(context.Background(), otherJob{})
	assert.ErrorContains(t, err, "unexpected job type")
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, jobs.IsRetryable(nil))
	assert.True(t, jobs.IsRetryable(errors.New("network")))
}

func TestProcessor_ExtraReporters(t *testing.T) {
	var seen []string
	factory := func(job *jobs.ImportStatementJob) pipeline.Reporter {
		seen = append(seen, job.UploadID)
		return pipeline.LogReporter{}
	}
	skip := func(job *jobs.ImportStatementJob) pipeline.Reporter { return nil }

	importer := &MockImporter{ImportFunc: func(ctx context.Context, up pipeline.Upload, r pipeline.Reporter) (*domain.Summary, error) {
		multi, ok := r.(pipeline.MultiReporter)
		require.True(t, ok)
		assert.Len(t, multi, 2)
		return &domain.Summary{}, nil
	}}

	job := &jobs.ImportStatementJob{JobID: "j1", UploadID: "up1", Content: []byte("x")}
	require.NoError(t, jobs.NewProcessor(importer, nil, inmemory.NewStore(), factory, skip).Handle(context.Background(), job))
	assert.Equal(t, []string{"up1"}, seen)
}
