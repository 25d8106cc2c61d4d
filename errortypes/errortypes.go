package errortypes

// EmptyConsent is returned when a consent string is absent or empty. The
// decoder is never invoked in this case.
type EmptyConsent struct {
	Message string
}

func (err *EmptyConsent) Error() string {
	return err.Message
}

func (err *EmptyConsent) Code() int {
	return EmptyConsentErrorCode
}

func (err *EmptyConsent) Severity() Severity {
	return SeverityFatal
}

// MalformedConsent is returned when the consent string argument could not be
// decoded. It carries the offending string along with the decoder's cause.
type MalformedConsent struct {
	Consent string
	Cause   error
}

func (err *MalformedConsent) Error() string {
	return "malformed consent string " + err.Consent + ": " + err.Cause.Error()
}

func (err *MalformedConsent) Code() int {
	return MalformedConsentErrorCode
}

func (err *MalformedConsent) Severity() Severity {
	return SeverityFatal
}

func (err *MalformedConsent) Unwrap() error {
	return err.Cause
}

// Warning is a non-fatal condition raised while loading reference data. The
// service still starts; lookups against the degraded dataset simply miss.
type Warning struct {
	Message     string
	WarningCode int
}

func (err *Warning) Error() string {
	return err.Message
}

func (err *Warning) Code() int {
	return err.WarningCode
}

func (err *Warning) Severity() Severity {
	return SeverityWarning
}

// BadInput should be used when returning errors which are caused by bad
// query input, such as an unknown declaration list or flag name.
type BadInput struct {
	Message string
}

func (err *BadInput) Error() string {
	return err.Message
}

func (err *BadInput) Code() int {
	return BadInputErrorCode
}

func (err *BadInput) Severity() Severity {
	return SeverityFatal
}
