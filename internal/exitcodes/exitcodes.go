// Package exitcodes defines the process exit codes used by ember-less.
package exitcodes

const (
	// Success indicates the command completed successfully.
	Success = 0

	// GeneralError indicates an unspecified error occurred.
	GeneralError = 1

	// UsageError indicates invalid flags or arguments.
	UsageError = 2

	// ConfigError indicates a missing or unreadable ember-less.yml.
	ConfigError = 3

	// ValidationError indicates an answer or persisted value failed validation.
	ValidationError = 4

	// IOError indicates a template could not be read or a destination could not be written.
	IOError = 5

	// VerifyFailed indicates generated files were modified or removed.
	VerifyFailed = 6
)

// Name returns a human readable name for an exit code.
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General Error"
	case UsageError:
		return "Usage Error"
	case ConfigError:
		return "Config Error"
	case ValidationError:
		return "Validation Error"
	case IOError:
		return "I/O Error"
	case VerifyFailed:
		return "Verify Failed"
	default:
		return "Unknown"
	}
}
