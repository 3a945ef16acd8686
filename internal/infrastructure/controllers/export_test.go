package controllers

// ApplySandboxOverride exports applySandboxOverride for testing.
var ApplySandboxOverride = applySandboxOverride //nolint:gochecknoglobals // test export
