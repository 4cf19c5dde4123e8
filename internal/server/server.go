package server

// Server объединяет специфичные HTTP сервера. Сейчас он один: DealServer.
type Server struct {
	DealServer
}

func NewServer(
	dealServer DealServer,
) Server {
	return Server{
		DealServer: dealServer,
	}
}
