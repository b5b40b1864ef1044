package signettest

import "github.com/signet-one/signet"

// Handler implements signet.Handler and tracks the call counts.
type Handler struct {
	checkCall   int
	CheckResult signet.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult signet.DeliverResult
	DeliverErr    error
}

var _ signet.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx signet.Context, db signet.KVStore, tx signet.Tx) (*signet.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx signet.Context, db signet.KVStore, tx signet.Tx) (*signet.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes the given key/value pair on any call and returns
// the configured error (use nil for success). Useful to observe whether
// a savepoint committed or discarded the write.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ signet.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx signet.Context, db signet.KVStore, tx signet.Tx) (*signet.CheckResult, error) {
	db.Set(h.Key, h.Value)
	if h.Err != nil {
		return nil, h.Err
	}
	return &signet.CheckResult{}, nil
}

func (h WriteHandler) Deliver(ctx signet.Context, db signet.KVStore, tx signet.Tx) (*signet.DeliverResult, error) {
	db.Set(h.Key, h.Value)
	if h.Err != nil {
		return nil, h.Err
	}
	return &signet.DeliverResult{}, nil
}
