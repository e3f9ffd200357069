package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type stateMessage struct {
	Val string `json:"val"`
	Ts  int64  `json:"ts"`
}

// absentValues are the upstream encodings of "not at any customer site".
var absentValues = []string{"", "0", "null"}

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds> <device_id,...> [customer_key,...]\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	devices := strings.Split(os.Args[2], ",")
	customers := []string{"Home-Herrengasse", "Office-Annenstrasse"}
	if len(os.Args) > 3 {
		customers = strings.Split(os.Args[3], ",")
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("fieldtime-mock-publisher")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	log.Printf("connected to %s, publishing every %ds...", broker, intervalSec)
	log.Printf("devices: %v, customers: %v", devices, customers)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		device := devices[rand.Intn(len(devices))]

		// 40% chance to leave every site, otherwise move to a random customer
		val := customers[rand.Intn(len(customers))]
		if rand.Float64() < 0.4 {
			val = absentValues[rand.Intn(len(absentValues))]
		}

		payload, _ := json.Marshal(stateMessage{Val: val, Ts: time.Now().UnixMilli()})
		topic := fmt.Sprintf("fieldtime/device/%s/geofence", device)

		token := client.Publish(topic, 1, false, payload)
		token.Wait()

		log.Printf("published to %s: %s", topic, payload)
	}
}
