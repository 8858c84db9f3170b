package main

import (
	"fmt"
	"io/ioutil"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	yaml "gopkg.in/yaml.v2"
)

// tracerKeys are the keys of the tracers of this module.
var tracerKeys = []string{
	"stakk.scanner",
	"stakk.lang",
	"stakk.runtime",
	"stakk.interp",
	"stakk.cli",
}

// settings are the command line settings relevant for configuration.
type settings struct {
	traceLevel string // overrides tracelevel.root, if set
	configFile string // YAML file, optional
}

// setupConfiguration creates the application configuration and initializes
// tracing. Configuration values are taken, in increasing priority, from
// defaults, NestedText files at standard locations, a YAML file and the
// command line.
func setupConfiguration(s settings) (schuko.Configuration, error) {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := koanfadapter.New(nil, "stakk", []string{".nt"})
	conf.Set("tracelevel.root", "Error")
	conf.Set("repl.prompt", "stakk> ")
	gconf.Initialize(conf) // loads configuration files
	if s.configFile != "" {
		if err := loadYAML(conf, s.configFile); err != nil {
			return nil, err
		}
	}
	if s.traceLevel != "" {
		conf.Set("tracelevel.root", s.traceLevel)
	}
	root := conf.GetString("tracelevel.root")
	for _, key := range tracerKeys {
		if k := "tracelevel." + key; conf.GetString(k) == "" {
			conf.Set(k, root)
		}
	}
	err := trace2go.ConfigureRoot(conf, "tracelevel", trace2go.ReplaceTracers(true))
	if err != nil {
		return nil, err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	tracer().Debugf("trace level is %s", root)
	return conf, nil
}

// loadYAML reads a YAML configuration file and sets every value found in it.
// Nested maps are flattened to keys separated by '.'.
func loadYAML(conf *koanfadapter.KConf, path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read configuration: %w", err)
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("cannot parse configuration %s: %w", path, err)
	}
	for k, v := range flatten("", m) {
		conf.Set(k, v)
	}
	return nil
}

func flatten(prefix string, m map[string]interface{}) map[string]interface{} {
	flat := make(map[string]interface{})
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := v.(type) {
		case map[interface{}]interface{}:
			sub := make(map[string]interface{}, len(v))
			for sk, sv := range v {
				sub[fmt.Sprint(sk)] = sv
			}
			for fk, fv := range flatten(key, sub) {
				flat[fk] = fv
			}
		case map[string]interface{}:
			for fk, fv := range flatten(key, v) {
				flat[fk] = fv
			}
		default:
			flat[key] = v
		}
	}
	return flat
}
