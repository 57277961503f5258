package session

import (
	"context"

	"github.com/exopredict/exopredict/internal/domain"

	"github.com/rs/xid"
)

// Token identifies one submission. Seq orders submissions within a session;
// RequestID is sent to the scoring service for log correlation.
type Token struct {
	Seq       uint64
	RequestID string
}

func newToken(seq uint64) Token {
	return Token{Seq: seq, RequestID: xid.New().String()}
}

// Outcome is how a submission ended. Discarded is set when a newer
// submission was issued before the response arrived; State is then the
// session's state at the time the response was dropped.
type Outcome struct {
	State     domain.RequestState
	Discarded bool
}

// Submission is the handle returned by every submit action
type Submission struct {
	Token Token

	done    chan struct{}
	outcome Outcome
}

func newSubmission(token Token) *Submission {
	return &Submission{
		Token: token,
		done:  make(chan struct{}),
	}
}

func (s *Submission) complete(outcome Outcome) {
	s.outcome = outcome
	close(s.done)
}

// Done is closed once the submission has been applied or discarded
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

func (s *Submission) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-s.done:
		return s.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}
