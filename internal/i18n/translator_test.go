package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/sharelink-gateway/internal/domain/share"
)

func TestTranslate(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	tests := []struct {
		name   string
		locale string
		key    Key
		args   []any
		want   string
	}{
		{
			name:   "english folder message",
			locale: "en-US",
			key:    KeySharedFolder,
			args:   []any{"Alice", "photos"},
			want:   `Alice has shared the folder "photos" with you.`,
		},
		{
			name:   "german regional variant matches german",
			locale: "de-DE",
			key:    KeySharedFolder,
			args:   []any{"Alice", "photos"},
			want:   `Alice hat den Ordner "photos" mit Ihnen geteilt.`,
		},
		{
			name:   "french file message",
			locale: "fr",
			key:    KeySharedFile,
			args:   []any{"Alice", "rapport.pdf"},
			want:   `Alice a partagé le fichier "rapport.pdf" avec vous.`,
		},
		{
			name:   "unsupported locale falls back to english",
			locale: "ja-JP",
			key:    KeyShareGone,
			want:   "The share you are looking for does not exist anymore.",
		},
		{
			name:   "garbage locale falls back to english",
			locale: "not a locale",
			key:    KeySomeone,
			want:   "Someone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Translate(tt.locale, tt.key, tt.args...))
		})
	}
}

func TestShareMessage(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	t.Run("nil proxy yields generic items message", func(t *testing.T) {
		got := tr.ShareMessage("en-US", "Alice", nil)
		assert.Equal(t, "Alice has shared items with you.", got)
	})

	t.Run("folder proxy", func(t *testing.T) {
		got := tr.ShareMessage("de", "Alice", &share.TargetProxy{Kind: share.TargetFolder, Title: "Fotos"})
		assert.Equal(t, `Alice hat den Ordner "Fotos" mit Ihnen geteilt.`, got)
	})

	t.Run("file proxy", func(t *testing.T) {
		got := tr.ShareMessage("en-US", "Alice", &share.TargetProxy{Kind: share.TargetFile, Title: "report.pdf"})
		assert.Equal(t, `Alice has shared the file "report.pdf" with you.`, got)
	})
}
