package providers

import (
	"context"
	"testing"
	"time"

	"github.com/abelbrown/tend/internal/model"
)

func TestSampleSetStableIDs(t *testing.T) {
	set := SampleSet(time.Now())
	ctx := context.Background()

	first, err := set.Commitments.Commitments(ctx)
	if err != nil {
		t.Fatalf("commitments: %v", err)
	}
	second, _ := set.Commitments.Commitments(ctx)

	// Ids are minted at construction, not per fetch.
	for i := range first {
		if first[i].CommitmentID != second[i].CommitmentID {
			t.Errorf("commitment id changed between fetches: %s vs %s",
				first[i].CommitmentID, second[i].CommitmentID)
		}
	}
}

func TestSampleComplete(t *testing.T) {
	set := SampleSet(time.Now())
	ctx := context.Background()

	before, _ := set.Commitments.Commitments(ctx)
	id := before[0].CommitmentID

	if err := set.Commitments.Complete(id); err != nil {
		t.Fatalf("complete: %v", err)
	}

	after, _ := set.Commitments.Commitments(ctx)
	for _, c := range after {
		if c.CommitmentID == id && c.Status != model.CommitmentCompleted {
			t.Errorf("completion not reflected: %s", c.Status)
		}
	}

	if err := set.Commitments.Complete("nope"); err == nil {
		t.Error("completing an unknown id should fail")
	}
}

func TestSampleFetchesAreCopies(t *testing.T) {
	set := SampleSet(time.Now())
	ctx := context.Background()

	alerts, _ := set.Alerts.Alerts(ctx)
	alerts[0].Headline = "tampered"

	fresh, _ := set.Alerts.Alerts(ctx)
	if fresh[0].Headline == "tampered" {
		t.Error("fetch returned a shared slice")
	}
}
