package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/userdeck/userdeck/internal/directory"
)

func sampleInput() directory.RecordInput {
	return directory.RecordInput{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Phone:     "555",
		Age:       40,
		Company:   directory.Company{Name: "Navy", Department: "Computing", Title: "Admiral"},
	}
}

func counter(start int64) func() int64 {
	next := start
	return func() int64 {
		next--
		return next
	}
}

func TestReconcileCreatedRebuildsCompanyAndBlanksImage(t *testing.T) {
	resp := directory.Record{ID: 209, FirstName: "Grace", Image: "https://example.test/a.png"}
	got := ReconcileCreated(resp, sampleInput(), nil, counter(0))

	assert.Equal(t, int64(209), got.ID)
	assert.Empty(t, got.Image)
	assert.Equal(t, "Navy", got.Company.Name)
	assert.Equal(t, "Hopper", got.LastName)
	assert.Equal(t, 40, got.Age)
}

func TestReconcileCreatedAssignsLocalID(t *testing.T) {
	tests := []struct {
		name    string
		respID  int64
		visible []directory.Record
		want    int64
	}{
		{name: "missing id", respID: 0, want: -1},
		{name: "collides with visible", respID: 209, visible: []directory.Record{{ID: 209}}, want: -1},
		{name: "unique id kept", respID: 209, visible: []directory.Record{{ID: 1}}, want: 209},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ReconcileCreated(directory.Record{ID: tc.respID}, sampleInput(), tc.visible, counter(0))
			assert.Equal(t, tc.want, got.ID)
		})
	}
}

func TestReconcileUpdatedKeepsIdentity(t *testing.T) {
	prev := directory.Record{
		ID:        7,
		FirstName: "Old",
		Image:     "https://example.test/7.png",
		Company:   directory.Company{Name: "Before"},
	}
	resp := directory.Record{ID: 7, FirstName: "Grace", Age: 41}

	got := ReconcileUpdated(prev, resp, sampleInput())
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "Grace", got.FirstName)
	assert.Equal(t, 41, got.Age)
	assert.Equal(t, "https://example.test/7.png", got.Image)
	assert.Equal(t, "Navy", got.Company.Name)
}

func TestLocalRecordTakesInput(t *testing.T) {
	prev := directory.Record{ID: -3, FirstName: "Old", Age: 30}
	got := LocalRecord(prev, sampleInput())
	assert.Equal(t, int64(-3), got.ID)
	assert.Equal(t, "Grace", got.FirstName)
	assert.Equal(t, 40, got.Age)
}
