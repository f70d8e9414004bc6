package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	global := map[string]complete.Predictor{
		"config":   predict.Files("*.yaml"),
		"data-dir": predict.Dirs("*"),
		"markdown": predict.Nothing,
	}
	session := map[string]complete.Predictor{
		"email":    predict.Something,
		"password": predict.Something,
	}
	with := func(extra map[string]complete.Predictor) map[string]complete.Predictor {
		m := map[string]complete.Predictor{}
		for k, v := range session {
			m[k] = v
		}
		for k, v := range extra {
			m[k] = v
		}
		return m
	}
	return &complete.Command{
		Flags: global,
		Sub: map[string]*complete.Command{
			"login":   {Flags: session},
			"unlock":  {},
			"logout":  {},
			"whoami":  {Flags: session},
			"history": {Flags: session},
			"refresh": {Flags: session},
			"send": {Flags: with(map[string]complete.Predictor{
				"to":     predict.Something,
				"amount": predict.Something,
			})},
			"serve": {Flags: map[string]complete.Predictor{
				"addr": predict.Something,
				"seed": predict.Files("*.json"),
			}},
			"topic": {Args: predict.Set{"*", "sessions", "transfers", "storage", "configuration"}},
			"help":  {Args: predict.Set{"login", "unlock", "logout", "whoami", "history", "refresh", "send", "serve", "topic"}},
		},
	}
}

