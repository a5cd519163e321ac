// ABOUTME: Media handle package for single-track background playback
// ABOUTME: Defines the Handle contract, its events and the oto-backed Element
// Package media provides the playback primitive a music control drives.
//
// A Handle plays exactly one audio resource. Callers request play and pause,
// but learn the outcome only through events delivered to subscribed
// listeners, which mirrors how a browser media element reports state:
//
//	release := h.Subscribe(func(ev media.Event) {
//	    if ev.Type == media.EventPlay {
//	        // playback confirmed
//	    }
//	})
//	defer release()
//
// Element is the production Handle. It preloads and decodes its resource
// on construction, loops it forever and refuses to start before a user
// gesture has been recorded with Activate, unless autoplay is allowed.
package media
