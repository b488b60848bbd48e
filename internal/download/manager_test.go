package download_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/browser-shell/internal/download"
	"github.com/ytget/browser-shell/internal/download/downloadtest"
)

type fakeTransfers struct {
	byURL map[string]*downloadtest.Transfer
	dirs  []string
}

func (f *fakeTransfers) factory(url, dir string) download.StartableTransfer {
	transfer := downloadtest.NewTransfer(url)
	f.byURL[url] = transfer
	f.dirs = append(f.dirs, dir)
	return transfer
}

type recorderStub struct {
	recorded []string
	err      error
}

func (r *recorderStub) Record(d *download.Download) error {
	r.recorded = append(r.recorded, d.ID())
	return r.err
}

func newTestManager(opts ...download.ManagerOption) (*download.Manager, *fakeTransfers) {
	transfers := &fakeTransfers{byURL: make(map[string]*downloadtest.Transfer)}
	opts = append([]download.ManagerOption{download.WithTransferFactory(transfers.factory)}, opts...)
	return download.NewManager("/tmp/downloads", opts...), transfers
}

func TestNewManager(t *testing.T) {
	manager, _ := newTestManager()

	assert.Equal(t, "/tmp/downloads", manager.DownloadDir())
	assert.Empty(t, manager.Downloads())

	manager.SetDownloadDir("/srv/files")
	assert.Equal(t, "/srv/files", manager.DownloadDir())
}

func TestManager_AddDownload(t *testing.T) {
	manager, transfers := newTestManager()
	var added []*download.Download
	manager.OnDownloadAdded(func(d *download.Download) { added = append(added, d) })

	d, err := manager.AddDownload("  https://example.com/a.zip ")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/a.zip", d.URL())
	assert.True(t, transfers.byURL[d.URL()].Started())
	assert.Equal(t, []string{"/tmp/downloads"}, transfers.dirs)
	assert.Equal(t, []*download.Download{d}, added)
	assert.Equal(t, []*download.Download{d}, manager.Downloads())

	got, ok := manager.GetDownload(d.ID())
	assert.True(t, ok)
	assert.Same(t, d, got)

	_, ok = manager.GetDownload("download-missing")
	assert.False(t, ok)
}

func TestManager_AddDownloadRejectsEmptyURL(t *testing.T) {
	manager, _ := newTestManager()

	_, err := manager.AddDownload("   ")
	assert.Error(t, err)
}

func TestManager_AddDownloadRejectsDuplicate(t *testing.T) {
	manager, transfers := newTestManager()
	url := "https://example.com/a.zip"

	_, err := manager.AddDownload(url)
	require.NoError(t, err)

	_, err = manager.AddDownload(url)
	assert.ErrorIs(t, err, download.ErrAlreadyActive)

	transfers.byURL[url].Finish()

	_, err = manager.AddDownload(url)
	assert.NoError(t, err)
	assert.Len(t, manager.Downloads(), 2)
}

func TestManager_RemoveDownload(t *testing.T) {
	manager, transfers := newTestManager()
	d, err := manager.AddDownload("https://example.com/a.zip")
	require.NoError(t, err)

	var removed []*download.Download
	manager.OnDownloadRemoved(func(d *download.Download) { removed = append(removed, d) })

	require.NoError(t, manager.RemoveDownload(d.ID()))

	assert.Empty(t, manager.Downloads())
	assert.Equal(t, []*download.Download{d}, removed)
	assert.True(t, transfers.byURL[d.URL()].Cancelled())
	assert.Equal(t, 0, transfers.byURL[d.URL()].ProgressSubscribers())
}

func TestManager_RemoveUnknownDownload(t *testing.T) {
	manager, _ := newTestManager()

	err := manager.RemoveDownload("download-missing")
	assert.ErrorIs(t, err, download.ErrNotFound)
}

func TestManager_CancelledDownloadIsRemoved(t *testing.T) {
	manager, _ := newTestManager()
	d, err := manager.AddDownload("https://example.com/a.zip")
	require.NoError(t, err)
	removed := 0
	manager.OnDownloadRemoved(func(*download.Download) { removed++ })

	d.Cancel()

	assert.Empty(t, manager.Downloads())
	assert.Equal(t, 1, removed)
}

func TestManager_FailedDownloadIsKept(t *testing.T) {
	recorder := &recorderStub{}
	manager, transfers := newTestManager(download.WithRecorder(recorder))
	d, err := manager.AddDownload("https://example.com/a.zip")
	require.NoError(t, err)

	transfers.byURL[d.URL()].Fail(errors.New("connection reset"))

	assert.Equal(t, []*download.Download{d}, manager.Downloads())
	assert.True(t, d.Failed())
	assert.Equal(t, []string{d.ID()}, recorder.recorded)
}

func TestManager_RecordsFinishedDownloads(t *testing.T) {
	recorder := &recorderStub{err: errors.New("disk full")}
	manager, transfers := newTestManager(download.WithRecorder(recorder))
	d, err := manager.AddDownload("https://example.com/a.zip")
	require.NoError(t, err)

	transfers.byURL[d.URL()].Finish()

	assert.Equal(t, []string{d.ID()}, recorder.recorded)
	assert.True(t, d.Succeeded())
}

func TestManager_MaxParallel(t *testing.T) {
	manager, transfers := newTestManager(download.WithMaxParallel(1))

	first, err := manager.AddDownload("https://example.com/1")
	require.NoError(t, err)
	second, err := manager.AddDownload("https://example.com/2")
	require.NoError(t, err)

	assert.True(t, transfers.byURL[first.URL()].Started())
	assert.False(t, transfers.byURL[second.URL()].Started())

	transfers.byURL[first.URL()].Finish()

	assert.True(t, transfers.byURL[second.URL()].Started())
}

func TestManager_SetMaxParallel(t *testing.T) {
	manager, transfers := newTestManager(download.WithMaxParallel(1))

	_, err := manager.AddDownload("https://example.com/1")
	require.NoError(t, err)
	second, err := manager.AddDownload("https://example.com/2")
	require.NoError(t, err)
	require.False(t, transfers.byURL[second.URL()].Started())

	manager.SetMaxParallel(2)

	assert.True(t, transfers.byURL[second.URL()].Started())
}

func TestManager_RemoveQueuedDownload(t *testing.T) {
	manager, transfers := newTestManager(download.WithMaxParallel(1))

	first, err := manager.AddDownload("https://example.com/1")
	require.NoError(t, err)
	second, err := manager.AddDownload("https://example.com/2")
	require.NoError(t, err)
	third, err := manager.AddDownload("https://example.com/3")
	require.NoError(t, err)

	require.NoError(t, manager.RemoveDownload(second.ID()))
	transfers.byURL[first.URL()].Finish()

	assert.False(t, transfers.byURL[second.URL()].Started())
	assert.True(t, transfers.byURL[third.URL()].Started())
}

func TestManager_Track(t *testing.T) {
	manager, _ := newTestManager()
	transfer := downloadtest.NewTransfer("https://example.com/external")
	d := download.NewDownload(transfer)

	manager.Track(d)
	d.Cancel()

	assert.Empty(t, manager.Downloads())
}

func TestManager_Close(t *testing.T) {
	manager, transfers := newTestManager()
	d, err := manager.AddDownload("https://example.com/a.zip")
	require.NoError(t, err)

	manager.Close()

	assert.True(t, transfers.byURL[d.URL()].Cancelled())
	assert.Empty(t, manager.Downloads())
}
