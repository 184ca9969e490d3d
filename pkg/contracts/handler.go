package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every HTTP surface in the service. The
// application wires each handler's routes into the shared router during
// startup.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}
