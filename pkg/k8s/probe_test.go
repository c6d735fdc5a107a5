package k8s

import (
	"testing"

	"k8s.io/client-go/kubernetes/fake"
)

func TestProbeReadyAfterCheck(t *testing.T) {
	client := fake.NewSimpleClientset()
	probe := NewProbe(client.Discovery())

	if probe.IsReady() {
		t.Fatal("probe should not be ready before any check")
	}

	probe.check()

	if !probe.IsReady() {
		t.Fatal("probe should be ready after a successful check")
	}
}
