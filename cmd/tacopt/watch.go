/*
 * Copyright 2026 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/cloudwego/tacopt"
	"github.com/fsnotify/fsnotify"
)

// watch re-runs the optimizer whenever input is written or replaced, until
// ctx is done. Failures are logged and do not stop the watch.
func watch(ctx context.Context, logger *slog.Logger, input string, opts []tacopt.Option) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	/* editors often replace the file, so watch the directory instead */
	defer w.Close()
	name := filepath.Clean(input)
	if err = w.Add(filepath.Dir(name)); err != nil {
		return err
	}

	/* event loop */
	logger.Info("watching", "input", name)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err = run(ctx, logger, name, opts); err != nil {
				logger.Error("optimization failed", "input", name, "err", err)
			} else {
				logger.Info("optimized", "input", name, "output", OutputFile)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "err", err)
		}
	}
}
