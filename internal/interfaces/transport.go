package interfaces

// Transport определяет контракт обмена текстовыми SCPI-командами с прибором.
// Send отправляет команду без чтения ответа; Query отправляет запрос и ждет
// одну строку ответа в пределах таймаута транспорта.
type Transport interface {
	Send(cmd string) error
	Query(cmd string) (string, error)
	Close() error
}
