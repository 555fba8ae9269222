package module

import dom "astrograph/internal/services/events/domain"

// Ports holds the ports exposed by the events module
type Ports struct {
	Scanner dom.ScannerPort
}
