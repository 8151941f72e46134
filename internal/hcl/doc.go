// Package hcl provides the concrete HCL implementation of the build file
// Loader defined in the `config` package. It is responsible for file
// discovery, parsing, and HCL-to-model translation.
//
// A build file describes the root project at its top level and nests
// sub-projects in `project` blocks:
//
//	compile {
//	  options = { debug = true }
//	}
//
//	project "core" {
//	  resources {
//	    include   = ["*.properties"]
//	    variables = { version = "1.2.0" }
//	  }
//	}
//
//	task "package" {
//	  depends_on = ["build"]
//	  run        = ["jar", "cf", "app.jar", "-C", "target/classes", "."]
//	}
//
// Expressions can read the process environment through `env`, for
// example `env.HOME`.
package hcl
