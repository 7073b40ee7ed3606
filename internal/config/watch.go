package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ChangeFunc receives the reloaded configuration, or the error that made
// the new file unusable. name is the file that changed.
type ChangeFunc func(name string, cfg *Config, err error)

// Watch reloads the configuration whenever the file backing v changes.
// It does nothing when v was not read from a file.
func Watch(v *viper.Viper, onChange ChangeFunc) bool {
	if v.ConfigFileUsed() == "" {
		return false
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := LoadFrom(v)
		onChange(e.Name, cfg, err)
	})
	v.WatchConfig()

	return true
}
