// Безголовый клиент: входит в систему, поднимает наблюдателя SOS
// и печатает переходы видимости экстренной кнопки. Удобен для проверки
// связки «сессия + опрос активных поездок» против живого сервера.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ride-booking/internal/api"
	"ride-booking/internal/config"
	"ride-booking/internal/session"
	"ride-booking/internal/sos"
)

func main() {
	email := flag.String("email", "", "email пользователя")
	password := flag.String("password", "", "пароль пользователя")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используем переменные окружения")
	}

	cfg := config.LoadClient()
	client := api.NewClient(cfg.BaseURL, cfg.RequestTimeout)
	store := session.NewStore(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *email != "" {
		res, err := client.Login(ctx, *email, *password)
		if err != nil {
			log.Fatalf("Ошибка входа: %v", err)
		}
		store.SetCredentials(res.User, res.Token)
	}
	store.Bootstrap(ctx, client.Token())

	user := store.Current()
	if user == nil {
		log.Fatal("Нет сессии: укажите -email и -password")
	}
	log.Printf("Сессия: %s (%s)", user.Name, user.Role)

	watcher := sos.NewWatcher(store, client)
	watcher.OnChange(func(visible bool) {
		if visible {
			ride := watcher.ActiveRide()
			log.Printf("SOS видна: поездка %d в статусе %s", ride.ID, ride.Status)
			for _, contact := range watcher.EmergencyContacts() {
				log.Printf("  экстренный контакт: %s %s", contact.Name, contact.Phone)
			}
		} else {
			log.Println("SOS скрыта")
		}
	})
	watcher.Start(ctx, cfg.SOSPollInterval)
	defer watcher.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Завершение наблюдателя")
}
