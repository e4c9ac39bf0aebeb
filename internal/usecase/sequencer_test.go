package usecase

import (
	"context"
	"errors"
	"testing"

	"resume-analyzer/internal/domain"
)

func newTestSequencer(uploader Uploader, gw PaymentGateway, hist PaymentHistory, gen *fakeGenerator) (*Sequencer, *Session) {
	session := NewSession()
	seq := NewSequencer(
		NewUploadOrchestrator(uploader, nil),
		NewPaymentOrchestrator(gw, hist, nil),
		NewFeedbackOrchestrator(gen, nil),
		session,
		"user-1",
		500,
		nil,
	)
	return seq, session
}

func TestSequencerInvalidFileGoesStraightToErrored(t *testing.T) {
	transport := &fakeUploader{}
	seq, session := newTestSequencer(transport, &fakeGateway{ready: true}, &fakeHistory{}, &fakeGenerator{})

	sel := pdfSelection()
	sel.MIMEType = "text/html"

	if err := seq.SelectFile(context.Background(), sel); err == nil {
		t.Fatal("expected validation error")
	}

	if seq.State() != Errored {
		t.Fatalf("expected Errored, got %v", seq.State())
	}
	if transport.callCount() != 0 {
		t.Fatalf("expected no upload call, got %d", transport.callCount())
	}
	if _, ok := session.DocumentRef(); ok {
		t.Fatal("session must not hold a reference after a failed upload")
	}
}

func TestSequencerRetryAfterUploadError(t *testing.T) {
	transport := &fakeUploader{fileURL: "https://x/y.pdf"}
	seq, session := newTestSequencer(transport, &fakeGateway{ready: true}, &fakeHistory{}, &fakeGenerator{})

	bad := pdfSelection()
	bad.MIMEType = "image/png"
	_ = seq.SelectFile(context.Background(), bad)

	if seq.State() != Errored {
		t.Fatalf("expected Errored, got %v", seq.State())
	}

	if err := seq.SelectFile(context.Background(), pdfSelection()); err != nil {
		t.Fatalf("retry should succeed, got %v", err)
	}
	if seq.State() != Uploaded {
		t.Fatalf("expected Uploaded after retry, got %v", seq.State())
	}

	ref, ok := session.DocumentRef()
	if !ok || ref != "https://x/y.pdf" {
		t.Fatalf("session reference not written: %q %v", ref, ok)
	}
}

func TestSequencerPayBeforeUploadIsRejected(t *testing.T) {
	seq, _ := newTestSequencer(&fakeUploader{}, &fakeGateway{ready: true}, &fakeHistory{}, &fakeGenerator{})

	err := seq.Pay(context.Background(), "pm_1")

	var serr *domain.StateError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StateError, got %v", err)
	}
	if seq.State() != Idle {
		t.Fatalf("illegal trigger must not change state, got %v", seq.State())
	}
}

func TestSequencerHappyPath(t *testing.T) {
	transport := &fakeUploader{fileURL: "https://x/y.pdf"}
	gw := &fakeGateway{ready: true, intent: domain.PaymentIntent{ID: "pi_1", ClientSecret: "cs"}}
	hist := &fakeHistory{}
	gen := &fakeGenerator{text: "Strong summary, weak bullet points."}
	seq, session := newTestSequencer(transport, gw, hist, gen)

	if err := seq.SelectFile(context.Background(), pdfSelection()); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if seq.State() != Uploaded {
		t.Fatalf("expected Uploaded, got %v", seq.State())
	}

	if err := seq.Pay(context.Background(), "pm_1"); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if seq.State() != Paid {
		t.Fatalf("expected Paid, got %v", seq.State())
	}
	if gw.confirmedID != "pi_1" {
		t.Fatalf("confirm must use the created intent id, got %q", gw.confirmedID)
	}

	text, err := seq.GenerateFeedback(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if seq.State() != Done {
		t.Fatalf("expected Done, got %v", seq.State())
	}
	if text != "Strong summary, weak bullet points." {
		t.Fatalf("unexpected feedback: %q", text)
	}

	// the results flow reads the same reference without re-uploading
	results := NewResultsFlow(session, NewFeedbackOrchestrator(gen, nil), nil)
	res, err := results.Run(context.Background())
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if res.DocumentRef != "https://x/y.pdf" {
		t.Fatalf("results must read the stored reference, got %q", res.DocumentRef)
	}
	if transport.callCount() != 1 {
		t.Fatalf("expected a single upload for the whole scenario, got %d", transport.callCount())
	}
}

func TestSequencerPaymentFailureIsRetryable(t *testing.T) {
	gw := &fakeGateway{
		ready:      true,
		intent:     domain.PaymentIntent{ID: "pi_1"},
		confirmErr: &domain.ExternalServiceError{Service: "stripe", Message: "card declined"},
	}
	seq, _ := newTestSequencer(&fakeUploader{fileURL: "https://x/y.pdf"}, gw, &fakeHistory{}, &fakeGenerator{})

	if err := seq.SelectFile(context.Background(), pdfSelection()); err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := seq.Pay(context.Background(), "pm_1"); err == nil {
		t.Fatal("expected payment failure")
	}
	if seq.State() != Errored {
		t.Fatalf("expected Errored, got %v", seq.State())
	}

	gw.confirmErr = nil
	if err := seq.Pay(context.Background(), "pm_1"); err != nil {
		t.Fatalf("payment retry should succeed, got %v", err)
	}
	if seq.State() != Paid {
		t.Fatalf("expected Paid after retry, got %v", seq.State())
	}
}

func TestSequencerFeedbackFailureIsRetryable(t *testing.T) {
	gen := &fakeGenerator{err: &domain.ExternalServiceError{Service: "completion service", Message: "overloaded"}}
	gw := &fakeGateway{ready: true, intent: domain.PaymentIntent{ID: "pi_1"}}
	seq, _ := newTestSequencer(&fakeUploader{fileURL: "https://x/y.pdf"}, gw, &fakeHistory{}, gen)

	if err := seq.SelectFile(context.Background(), pdfSelection()); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := seq.Pay(context.Background(), "pm_1"); err != nil {
		t.Fatalf("pay: %v", err)
	}

	if _, err := seq.GenerateFeedback(context.Background()); err == nil {
		t.Fatal("expected generation failure")
	}
	if seq.State() != Errored {
		t.Fatalf("expected Errored, got %v", seq.State())
	}

	// retry must not be allowed to re-run the payment step
	if err := seq.Pay(context.Background(), "pm_1"); err == nil {
		t.Fatal("retrying a different step must be rejected")
	}

	gen.err = nil
	gen.text = "Better now."
	text, err := seq.GenerateFeedback(context.Background())
	if err != nil {
		t.Fatalf("feedback retry should succeed, got %v", err)
	}
	if text != "Better now." || seq.State() != Done {
		t.Fatalf("unexpected retry outcome: %q state=%v", text, seq.State())
	}
}

func TestSequencerReset(t *testing.T) {
	seq, session := newTestSequencer(&fakeUploader{fileURL: "https://x/y.pdf"}, &fakeGateway{ready: true, intent: domain.PaymentIntent{ID: "pi_1"}}, &fakeHistory{}, &fakeGenerator{text: "ok"})

	if err := seq.SelectFile(context.Background(), pdfSelection()); err != nil {
		t.Fatalf("upload: %v", err)
	}

	seq.Reset()

	if seq.State() != Idle {
		t.Fatalf("expected Idle after reset, got %v", seq.State())
	}
	if _, ok := session.DocumentRef(); ok {
		t.Fatal("session must be cleared on reset")
	}
}
