package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ NameStore          = (*MemoryNameStore)(nil)
	_ WorkerPoolProvider = GoroutinePoolProvider{}
	_ Clock              = SystemClock{}
	_ AuthListener       = AuthListenerFunc(nil)
	_ ConfigProvider     = (*CfgxConfigProvider)(nil)
	_ OptionsResolver    = GoOptionsResolver{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
