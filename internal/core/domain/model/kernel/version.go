package kernel

// Versioned holds the optimistic concurrency token of an aggregate.
// Persistence adapters read it before a write and advance it after the write succeeds.
type Versioned struct {
	version int
}

func (v *Versioned) Version() int {
	return v.version
}

// SetVersion is called by persistence adapters only.
func (v *Versioned) SetVersion(version int) {
	v.version = version
}
