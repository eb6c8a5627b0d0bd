package pkg

import (
	"net/http"
	"time"
)

// HTTPClient is shared by the attachment downloader. Drive uses its own
// authenticated transport.
var HTTPClient = &http.Client{
	Timeout: time.Minute * 2,
}
