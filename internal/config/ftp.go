package config

import (
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// DefaultFTPPort is the standard FTP control port.
const DefaultFTPPort = 21

// FTPConfig holds the deployment target of one upload.
type FTPConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	RemotePath string
	// Secure switches to explicit FTPS.
	Secure bool
}

// LoadFTPConfig reads the FTP settings of env from v.
func LoadFTPConfig(v *viper.Viper, env Environment) FTPConfig {
	remote := strings.TrimSpace(v.GetString(EnvFTPRemotePath))
	if remote == "" {
		remote = env.DefaultRemotePath()
	}
	port := v.GetInt(EnvFTPPort)
	if port == 0 {
		port = DefaultFTPPort
	}
	return FTPConfig{
		Host:       strings.TrimSpace(v.GetString(EnvFTPHost)),
		Port:       port,
		User:       v.GetString(EnvFTPUser),
		Password:   v.GetString(EnvFTPPassword),
		RemotePath: remote,
		Secure:     v.GetString(EnvFTPSecure) == "true",
	}
}

// Addr returns host:port for dialing.
func (c FTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate reports every missing required variable at once.
func (c FTPConfig) Validate() error {
	var missing []string
	if c.Host == "" {
		missing = append(missing, EnvFTPHost)
	}
	if c.User == "" {
		missing = append(missing, EnvFTPUser)
	}
	if c.Password == "" {
		missing = append(missing, EnvFTPPassword)
	}
	if len(missing) > 0 {
		return &MissingConfigError{Names: missing}
	}
	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidPort
	}
	return nil
}
