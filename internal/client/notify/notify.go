// Package notify delivers user-visible, blocking notifications (the alerts of
// the browser client) to whichever front end is running.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Notifier shows msg to the user.
type Notifier interface {
	Notify(ctx context.Context, msg string)
}

// Messages shown by the stores.
const (
	LoginRequired        = "로그인이 필요합니다."
	LoginRequiredService = "로그인이 필요한 서비스입니다."
	ServerUnreachable    = "서버와 통신할 수 없습니다."
	LoginFailed          = "로그인에 실패했습니다. 아이디와 비밀번호를 확인해주세요."
	SessionSaveFailed    = "로그인 정보를 저장하지 못했습니다."
	SignupSucceeded      = "회원가입이 완료되었습니다. 로그인 해주세요."
	SignupFailed         = "회원가입에 실패했습니다."
	SignupUnreachable    = "회원가입에 실패했습니다. 서버와 통신할 수 없습니다."
	ProfileUpdateFailed  = "프로필 수정에 실패했습니다."
	JoinSucceeded        = "상품 가입이 완료되었습니다."
	JoinFailed           = "가입 처리 중 오류가 발생했습니다."
	JoinedUpdated        = "가입 정보가 수정되었습니다."
	JoinedUpdateFailed   = "가입 정보 수정에 실패했습니다."
	Terminated           = "상품이 해지되었습니다."
	TerminateFailed      = "상품 해지에 실패했습니다."
	RecommendFailed      = "추천 정보를 받아오지 못했습니다."
	UpdateDenied         = "수정 권한이 없거나 오류가 발생했습니다."
	DeleteDenied         = "삭제 권한이 없습니다."
)

// Writer prints every notification as a line to W.
type Writer struct {
	mu sync.Mutex
	W  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{W: w}
}

func (n *Writer) Notify(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.W, "[!] %s\n", msg)
}

// Queue buffers notifications until a front end drains them, e.g. to show
// them as flash messages on the next rendered page.
type Queue struct {
	mu   sync.Mutex
	msgs []string
}

func (q *Queue) Notify(_ context.Context, msg string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.msgs = append(q.msgs, msg)
}

// Drain returns the buffered messages in arrival order and empties the queue.
func (q *Queue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.msgs
	q.msgs = nil
	return out
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, msg string)

func (f Func) Notify(ctx context.Context, msg string) { f(ctx, msg) }
