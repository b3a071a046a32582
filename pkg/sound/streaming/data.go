package streaming

// Data pairs a Decoder with the Settings a streaming Sound built from it
// starts with, mirroring static.Data's shape so manager's play dispatch
// can treat both sound kinds uniformly at the call site.
type Data struct {
	Decoder  Decoder
	Settings Settings
}

// NewData builds a Data with Default settings.
func NewData(dec Decoder) Data {
	return Data{Decoder: dec, Settings: Default()}
}

// WithSettings returns a copy of d with settings replacing its Settings.
func (d Data) WithSettings(settings Settings) Data {
	d.Settings = settings
	return d
}
