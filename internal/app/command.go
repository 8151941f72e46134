package app

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/vk/gridbuild/internal/config"
	"github.com/vk/gridbuild/internal/ctxlog"
	"github.com/vk/gridbuild/internal/task"
)

// commandAction runs the command of a task block in dir. The task's
// arguments are exported as ARG_<NAME> environment variables.
func (a *App) commandAction(dir string, def *config.Task) task.Action {
	argv := append([]string(nil), def.Run...)

	var env []string
	for k, v := range def.Env {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)

	return func(ctx context.Context, t *task.Task, args task.Args) error {
		logger := ctxlog.FromContext(ctx)

		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		cmd.Dir = dir
		cmd.Env = append(cmd.Environ(), env...)
		for _, name := range args.Names() {
			cmd.Env = append(cmd.Env, "ARG_"+strings.ToUpper(name)+"="+args.Get(name))
		}
		cmd.Stdout = a.outW
		cmd.Stderr = a.outW

		logger.Debug("Running command.", "argv", argv, "dir", dir)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("command %q: %w", strings.Join(argv, " "), err)
		}
		return nil
	}
}
