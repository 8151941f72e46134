package app

import (
	"github.com/vk/gridbuild/internal/compiler"
	"github.com/vk/gridbuild/modules/javac"
	"github.com/vk/gridbuild/modules/tsc"
)

// coreModules are the compilers registered when the caller passes none.
// Order is priority.
var coreModules = []compiler.Module{
	&javac.Module{},
	&tsc.Module{},
}
