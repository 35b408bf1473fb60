package vsupport

const (
	registryClass = "IRegistry"
	registryField = "Z"
)

// Registry returns the global item registry of the host, absent when the
// registry holder or its field does not exist on this host version.
func (s *Support) Registry() (any, bool) {
	reg, err := s.Static(MinecraftCore, registryClass, registryField)
	if err != nil {
		s.failed("registry", err)
		return nil, false
	}
	if reg == nil {
		s.log.Warn().Str("op", "registry").Msg("registry not initialized")
		return nil, false
	}
	return reg, true
}
