package console

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelconsole/internal/backend/backendtest"
	"modelconsole/internal/logging"
	"modelconsole/internal/models"
)

func newTestService(t *testing.T, fake *backendtest.Fake, saver *backendtest.Saver) *Service {
	t.Helper()
	if saver == nil {
		saver = &backendtest.Saver{Dir: "/downloads"}
	}
	return NewService(fake, saver, logging.NewNopLogger(), 2)
}

func TestService_LoadModels(t *testing.T) {
	fake := &backendtest.Fake{Models: sampleModels("llama2", "mistral")}
	svc := newTestService(t, fake, nil)

	list, err := svc.LoadModels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"llama2", "mistral"}, models.Names(list))
}

func TestService_LoadModelsError(t *testing.T) {
	fake := &backendtest.Fake{ListErr: errors.New("connection refused")}
	svc := newTestService(t, fake, nil)

	_, err := svc.LoadModels(context.Background())

	assert.EqualError(t, err, "connection refused")
}

func TestService_LoadCatalog(t *testing.T) {
	fake := &backendtest.Fake{Catalog: []models.CatalogEntry{{Name: "phi3"}}}
	svc := newTestService(t, fake, nil)

	entries, err := svc.LoadCatalog(context.Background())

	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestService_FetchInfoSkipsFailures(t *testing.T) {
	fake := &backendtest.Fake{
		Info: map[string]models.InfoRecord{
			"a": models.InfoRecord(`{"license":"MIT"}`),
			"c": models.InfoRecord(`{"license":"Apache"}`),
		},
		InfoErr: map[string]error{"b": errors.New("boom")},
	}
	svc := newTestService(t, fake, nil)

	info := svc.FetchInfo(context.Background(), []string{"a", "b", "c"})

	assert.Len(t, info, 2)
	assert.NotContains(t, info, "b")
	assert.ElementsMatch(t, []string{"a", "b", "c"}, fake.InfoCalls)
}

func TestService_Query(t *testing.T) {
	fake := &backendtest.Fake{Response: "Hello!"}
	svc := newTestService(t, fake, nil)

	out, err := svc.Query(context.Background(), "llama2", "hello")

	require.NoError(t, err)
	assert.Equal(t, "Hello!", out)
	assert.Equal(t, []backendtest.GenerateCall{{Model: "llama2", Prompt: "hello"}}, fake.GenerateCalls)
}

func TestService_QueryError(t *testing.T) {
	fake := &backendtest.Fake{GenErr: errors.New("out of memory")}
	svc := newTestService(t, fake, nil)

	_, err := svc.Query(context.Background(), "llama2", "hello")

	assert.Error(t, err)
}

func TestService_PullForwardsProgress(t *testing.T) {
	fake := &backendtest.Fake{Progress: []models.PullProgress{
		{Model: "llama2", Status: models.PullStarted},
		{Model: "llama2", Status: models.PullInProgress, Total: 10, Completed: 5},
	}}
	svc := newTestService(t, fake, nil)

	progress := make(chan models.PullProgress, 4)
	result, err := svc.Pull(context.Background(), "llama2", progress)

	require.NoError(t, err)
	assert.Equal(t, models.PullCompleted, result.Status)
	assert.Len(t, progress, 2)
	assert.True(t, NeedsRefresh(result, err))
}

func TestNeedsRefresh(t *testing.T) {
	assert.True(t, NeedsRefresh(models.PullResult{Status: models.PullCompleted}, nil))
	assert.False(t, NeedsRefresh(models.PullResult{Status: models.PullFailed}, nil))
	assert.False(t, NeedsRefresh(models.PullResult{Status: "success"}, nil))
	assert.False(t, NeedsRefresh(models.PullResult{Status: models.PullCompleted}, errors.New("x")))
}

func TestService_DownloadInfo(t *testing.T) {
	saver := &backendtest.Saver{Dir: "/downloads"}
	svc := newTestService(t, &backendtest.Fake{}, saver)
	info := models.InfoMap{"llama2": models.InfoRecord(`{"license":"LLAMA 2","parameters":{"ctx":4096}}`)}

	notice := svc.DownloadInfo("llama2", info)

	assert.False(t, notice.IsError)
	assert.Equal(t, NoticeTitle, notice.Title)
	assert.Equal(t, "llama2.json", notice.Text)
	assert.Equal(t, "/downloads/llama2.json", notice.Path)
	assert.Equal(t,
		"{\n  \"license\": \"LLAMA 2\",\n  \"parameters\": {\n    \"ctx\": 4096\n  }\n}",
		string(saver.Files["llama2.json"]))
}

func TestService_DownloadInfoMissingRecord(t *testing.T) {
	saver := &backendtest.Saver{}
	svc := newTestService(t, &backendtest.Fake{}, saver)

	notice := svc.DownloadInfo("llama2", models.InfoMap{})

	assert.False(t, notice.IsError)
	assert.Equal(t, "null", string(saver.Files["llama2.json"]))
}

func TestService_DownloadInfoSaveFails(t *testing.T) {
	saver := &backendtest.Saver{Err: errors.New("permission denied")}
	svc := newTestService(t, &backendtest.Fake{}, saver)

	notice := svc.DownloadInfo("llama2", models.InfoMap{"llama2": models.InfoRecord(`{}`)})

	assert.True(t, notice.IsError)
	assert.Equal(t, "Error downloading file: permission denied", notice.Text)
	assert.Empty(t, notice.Path)
}
