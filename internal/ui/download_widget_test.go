package ui

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/browser-shell/internal/download"
	"github.com/ytget/browser-shell/internal/download/downloadtest"
	"github.com/ytget/browser-shell/internal/platform"
)

type removerStub struct {
	removed []string
}

func (r *removerStub) RemoveDownload(id string) error {
	r.removed = append(r.removed, id)
	return nil
}

type launcherStub struct {
	opened   []string
	revealed []string
}

func (l *launcherStub) Open(path string) error {
	l.opened = append(l.opened, path)
	return nil
}

func (l *launcherStub) Reveal(path string) error {
	l.revealed = append(l.revealed, path)
	return nil
}

type widgetFixture struct {
	transfer *downloadtest.Transfer
	record   *download.Download
	remover  *removerStub
	launcher *launcherStub
	widget   *DownloadWidget
}

func newWidgetFixture(t *testing.T, setup func(*downloadtest.Transfer), opts ...DownloadWidgetOption) *widgetFixture {
	t.Helper()
	test.NewApp()

	f := &widgetFixture{
		transfer: downloadtest.NewTransfer("https://example.com/file.bin"),
		remover:  &removerStub{},
		launcher: &launcherStub{},
	}
	f.record = download.NewDownload(f.transfer, download.WithLauncher(f.launcher))
	if setup != nil {
		setup(f.transfer)
	}
	opts = append([]DownloadWidgetOption{WithSandboxed(false)}, opts...)
	f.widget = NewDownloadWidget(f.record, f.remover, NewLocalization(), opts...)
	return f
}

func TestDownloadWidget_InitialState(t *testing.T) {
	f := newWidgetFixture(t, nil)
	w := f.widget

	assert.Equal(t, "Starting…", w.StatusText())
	assert.True(t, w.ProgressVisible())
	assert.False(t, w.Pulsing())
	assert.Equal(t, IconNameClose, w.ActionIconName())
	assert.True(t, w.ActionEnabled())
	assert.Equal(t, []string{platform.GenericFileIconName}, w.IconNames())
	assert.Empty(t, w.Filename())
}

func TestDownloadWidget_InitialStateFinished(t *testing.T) {
	f := newWidgetFixture(t, func(transfer *downloadtest.Transfer) {
		transfer.SetResponse("image/png", 10)
		transfer.SetDestination(platform.FileURI("/tmp/downloads/cat.png"))
		transfer.Finish()
	})
	w := f.widget

	assert.Equal(t, "Finished", w.StatusText())
	assert.False(t, w.ProgressVisible())
	assert.Equal(t, IconNameOpenFolder, w.ActionIconName())
	assert.Equal(t, "cat.png", w.Filename())
	assert.Equal(t, []string{"image-png-symbolic", "image-x-generic-symbolic", platform.GenericFileIconName}, w.IconNames())
}

func TestDownloadWidget_InitialStateFailed(t *testing.T) {
	f := newWidgetFixture(t, func(transfer *downloadtest.Transfer) {
		transfer.Fail(errors.New("connection reset"))
	})
	w := f.widget

	assert.Equal(t, "Error downloading: connection reset", w.StatusText())
	assert.False(t, w.ProgressVisible())
	assert.Equal(t, IconNameRemove, w.ActionIconName())
}

func TestDownloadWidget_ProgressWithoutDestinationIgnored(t *testing.T) {
	f := newWidgetFixture(t, nil)

	f.transfer.SetResponse("application/zip", 1000)
	f.transfer.SetProgress(250, 10*time.Second)

	assert.Equal(t, "Starting…", f.widget.StatusText())
	assert.Equal(t, 0.0, f.widget.ProgressFraction())
}

func TestDownloadWidget_ProgressKnownLength(t *testing.T) {
	f := newWidgetFixture(t, nil)

	f.transfer.SetDestination(platform.FileURI("/tmp/downloads/file.bin"))
	f.transfer.SetResponse("application/octet-stream", 1000)
	f.transfer.SetProgress(250, 10*time.Second)

	assert.Equal(t, "250 bytes / 1.0 kB — 30 seconds left", f.widget.StatusText())
	assert.InDelta(t, 0.25, f.widget.ProgressFraction(), 1e-9)
	assert.True(t, f.widget.ProgressVisible())
	assert.False(t, f.widget.Pulsing())
}

func TestDownloadWidget_ProgressUnknownLength(t *testing.T) {
	f := newWidgetFixture(t, nil)

	f.transfer.SetDestination(platform.FileURI("/tmp/downloads/file.bin"))
	f.transfer.SetProgress(500, 3*time.Second)

	assert.Equal(t, "500 bytes", f.widget.StatusText())
	assert.True(t, f.widget.Pulsing())
	assert.False(t, f.widget.ProgressVisible())
	assert.Equal(t, 0.0, f.widget.ProgressFraction())
}

func TestDownloadWidget_ProgressNothingReceived(t *testing.T) {
	f := newWidgetFixture(t, nil)

	f.transfer.SetDestination(platform.FileURI("/tmp/downloads/file.bin"))
	f.transfer.SetResponse("", 1000)
	f.transfer.SetProgress(0, time.Second)

	assert.Equal(t, "Starting…", f.widget.StatusText())
	assert.False(t, f.widget.Pulsing())
}

func TestDownloadWidget_Failure(t *testing.T) {
	f := newWidgetFixture(t, nil)
	f.transfer.SetDestination(platform.FileURI("/tmp/downloads/file.bin"))
	f.transfer.SetResponse("", 1000)

	f.transfer.Fail(errors.New("connection reset"))

	assert.Equal(t, "Error downloading: connection reset", f.widget.StatusText())
	assert.Equal(t, IconNameRemove, f.widget.ActionIconName())
	assert.False(t, f.widget.ProgressVisible())

	f.transfer.SetProgress(500, time.Second)

	assert.Equal(t, "Error downloading: connection reset", f.widget.StatusText())
	assert.False(t, f.widget.ProgressVisible())
	assert.False(t, f.widget.Pulsing())
}

func TestDownloadWidget_Completed(t *testing.T) {
	f := newWidgetFixture(t, nil)
	f.transfer.SetDestination(platform.FileURI("/tmp/downloads/file.bin"))
	f.transfer.SetResponse("application/pdf", 1000)
	f.transfer.SetProgress(1000, time.Second)

	f.transfer.Finish()

	assert.Equal(t, "Finished", f.widget.StatusText())
	assert.Equal(t, IconNameOpenFolder, f.widget.ActionIconName())
	assert.False(t, f.widget.ProgressVisible())
	assert.False(t, f.widget.Pulsing())
}

func TestDownloadWidget_ContentTypeChangedUpdatesIconOnly(t *testing.T) {
	f := newWidgetFixture(t, nil)

	f.record.SetContentType("video/mp4")

	assert.Equal(t, []string{"video-mp4-symbolic", "video-x-generic-symbolic", platform.GenericFileIconName}, f.widget.IconNames())
	assert.Equal(t, "Starting…", f.widget.StatusText())
	assert.Empty(t, f.widget.Filename())
}

func TestDownloadWidget_DestinationChangedUpdatesFilename(t *testing.T) {
	f := newWidgetFixture(t, nil)

	f.transfer.SetDestination("file:///tmp/downloads/my%20report.pdf")

	assert.Equal(t, "my report.pdf", f.widget.Filename())
	assert.Equal(t, "Starting…", f.widget.StatusText())
}

func TestDownloadWidget_ClickActiveCancels(t *testing.T) {
	f := newWidgetFixture(t, nil)
	f.transfer.SetDestination(platform.FileURI("/tmp/downloads/file.bin"))

	test.Tap(f.widget.actionButton)

	assert.True(t, f.transfer.Cancelled())
	assert.Equal(t, "Cancelling…", f.widget.StatusText())
	assert.False(t, f.widget.ActionEnabled())
	assert.Equal(t, IconNameClose, f.widget.ActionIconName())
	assert.True(t, f.record.Failed())

	f.transfer.SetProgress(500, time.Second)
	assert.Equal(t, "Cancelling…", f.widget.StatusText())
}

func TestDownloadWidget_ClickFailedRemoves(t *testing.T) {
	f := newWidgetFixture(t, nil)
	f.transfer.Fail(errors.New("boom"))

	test.Tap(f.widget.actionButton)

	assert.Equal(t, []string{f.record.ID()}, f.remover.removed)
}

func TestDownloadWidget_ClickFinishedRevealsOrOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.bin")

	f := newWidgetFixture(t, func(transfer *downloadtest.Transfer) {
		transfer.SetResponse("application/zip", 1)
		transfer.SetDestination(platform.FileURI(path))
		transfer.Finish()
	})
	test.Tap(f.widget.actionButton)
	assert.Equal(t, []string{path}, f.launcher.revealed)
	assert.Empty(t, f.launcher.opened)

	sandboxed := newWidgetFixture(t, func(transfer *downloadtest.Transfer) {
		transfer.SetResponse("application/zip", 1)
		transfer.SetDestination(platform.FileURI(path))
		transfer.Finish()
	}, WithSandboxed(true))
	test.Tap(sandboxed.widget.actionButton)
	assert.Equal(t, []string{path}, sandboxed.launcher.opened)
	assert.Empty(t, sandboxed.launcher.revealed)
}

func TestDownloadWidget_Dispose(t *testing.T) {
	f := newWidgetFixture(t, nil)
	require.Equal(t, 2, f.transfer.ProgressSubscribers())
	require.Equal(t, 1, f.transfer.DestinationSubscribers())

	f.widget.Dispose()
	f.widget.Dispose()

	assert.Nil(t, f.widget.Record())
	assert.Equal(t, 1, f.transfer.ProgressSubscribers())
	assert.Equal(t, 0, f.transfer.DestinationSubscribers())

	f.transfer.SetDestination(platform.FileURI("/tmp/downloads/late.bin"))
	f.transfer.Finish()
	assert.Equal(t, "Starting…", f.widget.StatusText())
	assert.Empty(t, f.widget.Filename())

	test.Tap(f.widget.actionButton)
	assert.False(t, f.transfer.Cancelled())
}

func TestDownloadWidget_Renders(t *testing.T) {
	f := newWidgetFixture(t, nil)
	w := test.NewWindow(f.widget)
	defer w.Close()

	assert.GreaterOrEqual(t, f.widget.MinSize().Width, float32(DownloadRowMinWidth))
}
