package notify

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/siteloom/internal/models"
)

type recordingNotifier struct {
	success *SuccessSummary
	failure *FailureSummary
	err     error
}

func (r *recordingNotifier) NotifySuccess(s SuccessSummary) error {
	r.success = &s
	return r.err
}

func (r *recordingNotifier) NotifyFailure(s FailureSummary) error {
	r.failure = &s
	return r.err
}

func sampleDoc() *models.CombinedDocument {
	return &models.CombinedDocument{
		PageRecord: models.PageRecord{
			URL:        "https://acme.example.com/",
			Title:      "Acme",
			Headings:   []models.Heading{{Level: "h1", Text: "Welcome"}},
			Paragraphs: []string{"one", "two"},
		},
		TotalURLsScraped: 4,
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleDoc())

	assert.Equal(t, "https://acme.example.com/", s.RootURL)
	assert.Equal(t, "Acme", s.Title)
	assert.Equal(t, 4, s.TotalURLsScraped)
	assert.Equal(t, 1, s.ContentCounts["headings"])
	assert.Equal(t, 2, s.ContentCounts["paragraphs"])
	assert.Equal(t, 0, s.ContentCounts["tables"])
}

func TestSendSuccess(t *testing.T) {
	n := &recordingNotifier{}
	Send(n, zerolog.Nop(), sampleDoc(), nil, "https://acme.example.com/")

	require.NotNil(t, n.success)
	assert.Nil(t, n.failure)
	assert.Equal(t, "Acme", n.success.Title)
}

func TestSendFailure(t *testing.T) {
	n := &recordingNotifier{}
	Send(n, zerolog.Nop(), nil, errors.New("root fetch failed"), "https://acme.example.com/")

	require.NotNil(t, n.failure)
	assert.Nil(t, n.success)
	assert.Equal(t, "https://acme.example.com/", n.failure.URL)
	assert.Contains(t, n.failure.Error, "root fetch failed")
	assert.False(t, n.failure.Timestamp.IsZero())
}

func TestSendSwallowsNotifierErrors(t *testing.T) {
	n := &recordingNotifier{err: errors.New("smtp down")}
	assert.NotPanics(t, func() {
		Send(n, zerolog.Nop(), sampleDoc(), nil, "https://acme.example.com/")
	})
}

func TestSendNilNotifier(t *testing.T) {
	assert.NotPanics(t, func() {
		Send(nil, zerolog.Nop(), sampleDoc(), nil, "https://acme.example.com/")
	})
}

func TestLogNotifier(t *testing.T) {
	n := LogNotifier{Logger: zerolog.Nop()}
	assert.NoError(t, n.NotifySuccess(Summarize(sampleDoc())))
	assert.NoError(t, n.NotifyFailure(FailureSummary{URL: "https://x.example.com/", Error: "boom"}))
}
