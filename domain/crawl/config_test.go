package crawl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParameters_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Parameters)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(p *Parameters) {}},
		{
			name:    "page size below minimum",
			mutate:  func(p *Parameters) { p.PageSize = 0 },
			wantErr: "page_size",
		},
		{
			name:    "page size above Graph limit",
			mutate:  func(p *Parameters) { p.PageSize = 5000 },
			wantErr: "page_size",
		},
		{
			name:    "negative retries",
			mutate:  func(p *Parameters) { p.MaxRetries = -1 },
			wantErr: "max_retries",
		},
		{
			name:    "zero concurrency",
			mutate:  func(p *Parameters) { p.Concurrency = 0 },
			wantErr: "concurrency",
		},
		{
			name:    "cap below base delay",
			mutate:  func(p *Parameters) { p.MaxRetryDelay = time.Millisecond },
			wantErr: "max_retry_delay",
		},
		{
			name:    "non-positive request rate",
			mutate:  func(p *Parameters) { p.RequestsPerSecond = 0 },
			wantErr: "requests_per_second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mutate(p)
			err := p.Validate(nil)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
