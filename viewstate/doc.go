// Package viewstate holds the controllers behind each catalog screen.
//
// A single Dispatcher plays the part of the UI thread. Presentation code calls
// intent methods (LoadMore, SetQuery, SelectTab, ...) from any goroutine; the
// intent is queued on the dispatcher, network calls run on their own
// goroutines, and their results are queued back onto the dispatcher before
// any state is written. Presentation reads state through State or Subscribe,
// and can call Wait to block until everything it asked for has landed:
//
//	ui := viewstate.NewDispatcher(logger)
//	defer ui.Stop(ctx)
//
//	home := viewstate.NewHome(client, genres, ui, logger)
//	if err := home.Wait(ctx); err != nil {
//		return err
//	}
//	for _, item := range home.State().Trending {
//		fmt.Println(item.Title, item.Genre, item.Rating)
//	}
//
// Requests are never cancelled when superseded. Results are applied in the
// order they arrive, so a slow page or query can land after a newer one.
// Search can opt in to dropping stale results with WithStaleGuard.
package viewstate
