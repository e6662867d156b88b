package detect

import (
	"errors"
	"testing"

	"github.com/dverenov/bankfeed/internal/domain"
)

func TestDetect(t *testing.T) {
	data := []byte("some file content")

	tests := []struct {
		name     string
		filename string
		mimeType string
		want     Format
		wantErr  error
	}{
		{
			name:     "csv by mime",
			filename: "statement.bin",
			mimeType: "text/csv",
			want:     FormatCSV,
		},
		{
			name:     "csv mime with charset parameter",
			filename: "statement.bin",
			mimeType: "text/csv; charset=utf-8",
			want:     FormatCSV,
		},
		{
			name:     "xlsx by mime",
			filename: "statement",
			mimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			want:     FormatExcel,
		},
		{
			name:     "pdf by extension when mime is generic",
			filename: "march.pdf",
			mimeType: "application/octet-stream",
			want:     FormatPDF,
		},
		{
			name:     "ofx by extension",
			filename: "export.OFX",
			mimeType: "",
			want:     FormatOFX,
		},
		{
			name:     "qfx treated as ofx",
			filename: "chase.qfx",
			mimeType: "",
			want:     FormatOFX,
		},
		{
			name:     "untrusted mime falls back to extension",
			filename: "data.csv",
			mimeType: "application/json",
			want:     FormatCSV,
		},
		{
			name:     "unsupported",
			filename: "notes.txt",
			mimeType: "text/plain",
			want:     FormatUnknown,
			wantErr:  domain.ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(data, tt.filename, tt.mimeType)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Detect() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Detect() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetect_EmptyFile(t *testing.T) {
	_, err := Detect(nil, "statement.csv", "text/csv")
	if !errors.Is(err, domain.ErrEmptyFile) {
		t.Fatalf("Detect() error = %v, want ErrEmptyFile", err)
	}
}
