package reactive

// Computation is a function whose reads are tracked. It is re-run whenever a
// key it read is written.
type Computation struct {
	id      uint64
	name    string
	fn      func()
	rt      *Runtime
	sources []*subscribers
	runs    int

	disposed bool
}

// ID returns the unique identifier of the computation.
func (c *Computation) ID() uint64 {
	return c.id
}

// Name returns the computation's name.
func (c *Computation) Name() string {
	return c.name
}

// Runs returns how many times the computation has run.
func (c *Computation) Runs() int {
	return c.runs
}

// Dependencies returns the number of keys the computation is subscribed to.
func (c *Computation) Dependencies() int {
	return len(c.sources)
}

// Run re-runs the computation under tracking. Panics propagate to the caller.
func (c *Computation) Run() {
	if c.disposed {
		return
	}
	c.rt.run(c)
}

// Dispose unsubscribes the computation from every key. A disposed
// computation is never run again.
func (c *Computation) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.clearSources()
}

func (c *Computation) addSource(s *subscribers) {
	for _, existing := range c.sources {
		if existing == s {
			return
		}
	}
	c.sources = append(c.sources, s)
}

func (c *Computation) clearSources() {
	for _, s := range c.sources {
		s.unsubscribe(c)
	}
	c.sources = c.sources[:0]
}

// subscribers is the dependent set of one key.
type subscribers struct {
	key  string
	subs []*Computation
}

// subscribe adds c, ignoring duplicates.
func (s *subscribers) subscribe(c *Computation) {
	for _, existing := range s.subs {
		if existing == c {
			return
		}
	}
	s.subs = append(s.subs, c)
	c.addSource(s)
}

func (s *subscribers) unsubscribe(c *Computation) {
	for i, existing := range s.subs {
		if existing == c {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// snapshot copies the subscriber list so computations can subscribe or
// unsubscribe while being notified.
func (s *subscribers) snapshot() []*Computation {
	out := make([]*Computation, len(s.subs))
	copy(out, s.subs)
	return out
}

// depIndex maps keys to their dependent sets. It is kept apart from the
// values so enumeration never sees it.
type depIndex map[string]*subscribers

func (d depIndex) get(key string) *subscribers {
	s, ok := d[key]
	if !ok {
		s = &subscribers{key: key}
		d[key] = s
	}
	return s
}
