// Package version хранит сведения о сборке, заполняемые через -ldflags:
//
//	-X github.com/vladislavdragonenkov/salesdash/internal/version.version=v1.2.0
package version

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func GetVersion() string { return version }

func GetCommit() string { return commit }

// GetDate возвращает дату сборки в том виде, в каком её передали при линковке.
func GetDate() string { return date }
