package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch calls onChange with the reloaded configuration whenever the config
// file behind v is written. It returns false when v has no config file to
// watch. Invalid edits are reported through the error argument and the
// previous configuration stays in effect for the caller.
func Watch(v *viper.Viper, onChange func(*Config, error)) bool {
	if v.ConfigFileUsed() == "" {
		return false
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(LoadFrom(v))
	})
	v.WatchConfig()
	return true
}
