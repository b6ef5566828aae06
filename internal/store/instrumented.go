package store

// instrumentedStore records hit and miss counters for every lookup and exposes
// the entry count through a collector evaluated at scrape time.
type instrumentedStore struct {
	inner Store
	group string
}

func newInstrumentedStore(inner Store, group string) *instrumentedStore {
	registerEntriesCollector(group, inner.Len)
	return &instrumentedStore{inner: inner, group: group}
}

func (s *instrumentedStore) Get(key string) ([]byte, bool) {
	val, ok := s.inner.Get(key)
	if ok {
		HitsTotal.WithLabelValues(s.group).Inc()
	} else {
		MissesTotal.WithLabelValues(s.group).Inc()
	}
	return val, ok
}

func (s *instrumentedStore) Set(key string, value []byte) error {
	return s.inner.Set(key, value)
}

func (s *instrumentedStore) Delete(key string) {
	s.inner.Delete(key)
}

func (s *instrumentedStore) Len() int {
	return s.inner.Len()
}

// Close unregisters the entries collector and closes the underlying store.
func (s *instrumentedStore) Close() error {
	unregisterEntriesCollector(s.group)
	return s.inner.Close()
}
