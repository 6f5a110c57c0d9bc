// @title Bench Sweep Service API
// @version 1.0.0
// @description API для управления стендом: симулятор сети NHR 9400 и электронная нагрузка Chroma 63804, вложенные развертки V-I с публикацией результатов в Kafka.
// @host localhost:8082
// @BasePath /api/v1
package main

import "github.com/iwtcode/benchService/internal/app"

func main() {
	// Создаем и запускаем новый экземпляр приложения fx
	app.New().Run()
}
