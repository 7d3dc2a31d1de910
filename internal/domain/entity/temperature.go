// Package entity contains the core business objects of the project.
package entity

// TemperatureUnit represents the unit of a cold room's temperature range.
type TemperatureUnit string

const (
	// TemperatureCelsius indicates the range is expressed in degrees Celsius.
	TemperatureCelsius TemperatureUnit = "CELSIUS"
	// TemperatureFahrenheit indicates the range is expressed in degrees Fahrenheit.
	TemperatureFahrenheit TemperatureUnit = "FAHRENHEIT"
)

// String returns the string representation of the TemperatureUnit.
func (u TemperatureUnit) String() string {
	return string(u)
}

// IsValid checks if the TemperatureUnit is a valid value.
func (u TemperatureUnit) IsValid() bool {
	switch u {
	case TemperatureCelsius, TemperatureFahrenheit:
		return true
	default:
		return false
	}
}
