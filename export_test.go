package vsupport

// ResetInstance forgets the attached host and the published Support.
func ResetInstance() {
	guard.Lock()
	defer guard.Unlock()
	attached.Store(nil)
	instance.Store(nil)
}
