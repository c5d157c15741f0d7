// Package textserver serves the message an lcdfeed display shows.
//
// The device polls GET / and renders the plain text body. The first '\n'
// in the body splits the two display lines:
//
//	$ curl -X PUT --data-binary $'Hello\nWorld' http://localhost:8080/
//	$ curl http://localhost:8080/
//	Hello
//	World
//
// A messages file rotates through a list instead:
//
//	messages:
//	  - "GG Gamers!!"
//	  - "Build passing\nmain @ 3f2a1c"
//	rotate: 1m
package textserver
