package executors

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/cwreports/pkg/ynab"
)

// maxConcurrentFetches bounds parallel requests against the YNAB API.
const maxConcurrentFetches = 4

type Executor struct {
	logger   *log.Logger
	provider ynab.Provider
	create   func(name string) (io.WriteCloser, error)
}

func New(logger *log.Logger, provider ynab.Provider) *Executor {
	return &Executor{
		logger:   logger,
		provider: provider,
		create:   createFile,
	}
}

func createFile(name string) (io.WriteCloser, error) {
	return os.Create(name)
}
