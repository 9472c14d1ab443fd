package natsadapter_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	natsadapter "github.com/ccsustmap/campusmap/internal/adapters/nats"
	"github.com/ccsustmap/campusmap/internal/core/domain"
)

func TestCameraMsg_StampsInstance(t *testing.T) {
	tr := domain.CameraTransition{
		Region:   domain.CampusYuntang.DefaultRegion(),
		Duration: 300 * time.Millisecond,
		Reason:   domain.ReasonCampusSelected,
	}
	msg, err := natsadapter.CameraMsg("instance-a", tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Subject != natsadapter.SubjectCamera {
		t.Errorf("expected subject %s, got %s", natsadapter.SubjectCamera, msg.Subject)
	}

	var got domain.CameraTransition
	if err := json.Unmarshal(msg.Data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Reason != domain.ReasonCampusSelected {
		t.Errorf("expected campus_selected, got %s", got.Reason)
	}

	if !natsadapter.FromInstance(msg, "instance-a") {
		t.Error("message should be recognised as self-published")
	}
	if natsadapter.FromInstance(msg, "instance-b") {
		t.Error("message from another instance must not be skipped")
	}
}

func TestFromInstance_Unstamped(t *testing.T) {
	plain := &nats.Msg{Subject: natsadapter.SubjectCamera, Data: []byte(`{}`)}
	if natsadapter.FromInstance(plain, "instance-a") {
		t.Error("message without header must not be skipped")
	}

	stamped, err := natsadapter.CameraMsg("instance-a", domain.CameraTransition{})
	if err != nil {
		t.Fatal(err)
	}
	if natsadapter.FromInstance(stamped, "") {
		t.Error("an empty instance ID matches nothing")
	}
}
