package shared

const (
	DefaultInput  = "credentials.json"
	DefaultOutput = "credentials_desktop.json"
)

type Config struct {
	Input   string `mapstructure:"input" validate:"required"`
	Output  string `mapstructure:"output" validate:"required"`
	Verbose bool   `mapstructure:"verbose"`
}
