package module

import dom "astrograph/internal/services/batch/domain"

// Ports holds the ports exposed by the batch module
type Ports struct {
	Runner dom.RunnerPort
}
