package download

import (
	"github.com/tubegrab/tubegrab/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	SetLineCallback(func(string))
	SetProgressCallback(func(model.ProgressEvent))
	SetFinishedCallback(func(model.Outcome))
	Start(req *model.DownloadRequest) (string, error)
	Cancel() error
	State() model.RunState
}
