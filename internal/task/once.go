package task

// onceString is a write-once optional string. The first Set seals the value;
// later writes are silent no-ops. This models the parse contract exactly:
// first successful parse wins, later parses never overwrite.
type onceString struct {
	value string
	set   bool
}

// Set stores v if nothing was stored before.
// Returns true if the write took effect.
func (o *onceString) Set(v string) bool {
	if o.set {
		return false
	}
	o.value = v
	o.set = true
	return true
}

// force overwrites the value regardless of sealing. Only the error-recovery
// path uses this, to coerce a failed parse into a terminal "error" action.
func (o *onceString) force(v string) {
	o.value = v
	o.set = true
}

// Get returns the stored value, or the empty string when unset.
func (o *onceString) Get() string {
	return o.value
}

// IsSet reports whether a value was stored.
func (o *onceString) IsSet() bool {
	return o.set
}
