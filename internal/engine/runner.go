package engine

// Returned func slices are callbacks to fire after v.mu is released.

func (v *Value) submitLocked(u *Update, h *Handle) ([]func(), error) {
	v.calls++
	u.callID = v.calls

	if u.OnProps != nil {
		u.OnProps(u)
	}

	var fire []func()
	if u.Pause && !v.paused {
		v.paused = true
		if fn := v.onPause; fn != nil {
			fire = append(fire, func() { fn(v) })
		}
	}

	if u.Delay > 0 {
		p := &pendingUpdate{id: u.callID, u: u, h: h, stop: make(chan struct{})}
		p.timer = v.clock.NewTimer(u.Delay)
		v.pending[p.id] = p
		go func() {
			select {
			case <-p.timer.C():
				v.delayEnd(p)
			case <-p.stop:
				p.timer.Stop()
			}
		}()
		return fire, nil
	}

	if v.paused && !u.Cancel {
		p := &pendingUpdate{id: u.callID, u: u, h: h, gated: true}
		v.pending[p.id] = p
		v.waiters = append(v.waiters, p.id)
		return fire, nil
	}

	mergeFire, err := v.mergeLocked(u, h)
	return append(fire, mergeFire...), err
}

func (v *Value) delayEnd(p *pendingUpdate) {
	v.mu.Lock()
	if _, ok := v.pending[p.id]; !ok {
		v.mu.Unlock()
		return
	}
	delete(v.pending, p.id)

	if p.u.OnDelayEnd != nil {
		p.u.OnDelayEnd(p.u)
	}

	var fire []func()
	if v.paused && !p.u.Cancel {
		p.gated = true
		v.pending[p.id] = p
		v.waiters = append(v.waiters, p.id)
	} else {
		fire, _ = v.mergeLocked(p.u, p.h)
	}
	v.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

// releasePendingLocked drops pending updates with callID at or below limit,
// all of them when limit is zero.
func (v *Value) releasePendingLocked(limit uint64, cancel bool) []func() {
	var fire []func()
	for id, p := range v.pending {
		if limit > 0 && id > limit {
			continue
		}
		if p.stop != nil {
			close(p.stop)
		}
		delete(v.pending, id)

		h := p.h
		r := Result{Values: v.node.Values(), Cancelled: cancel}
		fire = append(fire, func() { h.resolve(r, nil) })
	}

	if len(fire) > 0 {
		kept := v.waiters[:0]
		for _, id := range v.waiters {
			if _, ok := v.pending[id]; ok {
				kept = append(kept, id)
			}
		}
		v.waiters = kept
	}
	return fire
}

// maybeLoop resubmits a finished loop update. A continuation that resolved
// as a no-op terminates the loop, as does the predicate going false.
func (v *Value) maybeLoop(u *Update, r Result) {
	if u.Loop == nil {
		return
	}
	if u.fromLoop && r.Noop {
		return
	}
	if !u.Loop() {
		return
	}

	next := *u
	next.callID = 0
	next.fromLoop = true
	next.Chain = append([]Update(nil), u.Chain...)
	if next.Reverse {
		next.To, next.From = next.From, next.To
	}
	v.Start(next) //nolint:errcheck // a frozen value simply ends the loop
}

// runChain submits each chain element in turn, resolving the outer handle
// with the last result. Elements carry the chain's token; a Stop or newer
// update retires the token and stale elements resolve cancelled.
func (v *Value) runChain(u *Update, h *Handle, token uint64) {
	chain := u.Chain
	go func() {
		last := Result{Values: v.Get(), Finished: true}
		for i := range chain {
			c := chain[i]
			c.chainID = token
			inner, err := v.Start(c)
			if err != nil {
				h.resolve(last, err)
				return
			}
			last = inner.Result()
			if !last.Finished || last.Cancelled {
				h.resolve(last, nil)
				return
			}
		}
		h.resolve(last, nil)
		if last.Finished && !last.Cancelled {
			v.maybeLoop(u, last)
		}
	}()
}
