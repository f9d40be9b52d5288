package common

const (
	ComponentWatcher = "watcher"
	ComponentRPC     = "rpc"
	ComponentParser  = "parser"
	ComponentStore   = "store"
	ComponentSink    = "sink"
	ComponentAPI     = "api"
)

var AllComponents = map[string]struct{}{
	ComponentWatcher: {},
	ComponentRPC:     {},
	ComponentParser:  {},
	ComponentStore:   {},
	ComponentSink:    {},
	ComponentAPI:     {},
}
