package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
	fleetGrpc "liyu1981.xyz/battery-fleet-service/pkg/grpc"
	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

var maxBatteries int = 1000
var readingsPerBattery int = 6
var httpHostPort string = "127.0.0.1:1080"
var grpcHostPort string = "127.0.0.1:10801"

var grpcClient *fleetGrpc.BatteryFleetClient

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

// batteryState is the last reading sent for one battery, the next one has to
// be later and no healthier.
type batteryState struct {
	id        uint
	initial   float64
	at        time.Time
	health    float64
	cycles    int
	usageType string
}

func main() {
	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	conn, err := grpc.NewClient(grpcHostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = fleetGrpc.NewBatteryFleetClient(conn)

	fmt.Printf("gRPC client connected\n")

	states := make([]*batteryState, maxBatteries)

	var startTime time.Time
	var usedTime time.Duration

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range maxBatteries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			states[i] = createBattery()
			fmt.Printf("\rcreated battery %v", i)
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rcreated %v batteries: used time=%v seconds, throughput=%v action/second\n",
		maxBatteries, usedTime.Seconds(), float64(maxBatteries)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxBatteries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if states[i] != nil {
				doActions(states[i])
			}
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	actions := maxBatteries * (readingsPerBattery + 2)
	fmt.Printf(
		"\n\rdid actions for %v batteries: used time=%v seconds, throughput=%v action/second\n",
		maxBatteries, usedTime.Seconds(), float64(actions)/usedTime.Seconds(),
	)

	startTime = time.Now()
	updated, err := grpcClient.Tick(context.Background(), &emptypb.Empty{})
	if err != nil {
		log.Fatal("tick failed: ", err)
	}
	fmt.Printf("tick updated %v batteries in %v seconds\n", updated.GetValue(), time.Since(startTime).Seconds())
}

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(100000)%2 == 0
}

func rndFloat64(min, max float64, decimal int) float64 {
	rndMu.Lock()
	val := min + rnd.Float64()*(max-min)
	rndMu.Unlock()
	multiplier := math.Pow10(decimal)
	return math.Round(val*multiplier) / multiplier
}

func postJSON(path string, payload any, out any) (int, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	resp, err := http.Post(fmt.Sprintf("http://%s%s", httpHostPort, path), "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func createBattery() *batteryState {
	installDate := time.Now().UTC().AddDate(0, 0, -int(rndFloat64(30, 1000, 0)))
	initial := rndFloat64(2000, 20000, 0)
	payload := map[string]any{
		"name":            "bench-" + uuid.NewString()[:8],
		"serialNumber":    uuid.NewString(),
		"manufacturer":    "bench",
		"chemistry":       "LFP",
		"nominalVoltage":  48,
		"initialCapacity": initial,
		"expectedCycles":  2000,
		"installDate":     installDate.Format(time.RFC3339),
		"degradationRate": rndFloat64(0.1, 2.0, 2),
	}

	var battery models.Battery
	code, err := postJSON("/batteries", payload, &battery)
	if err != nil || code != http.StatusCreated {
		fmt.Printf("\ncreate battery failed: code=%v, err=%v\n", code, err)
		return nil
	}

	usageTypes := []string{"light", "moderate", "heavy"}
	return &batteryState{
		id:        battery.ID,
		initial:   initial,
		at:        installDate,
		health:    100,
		usageType: usageTypes[int(rndFloat64(0, 2, 0))],
	}
}

func doActions(state *batteryState) {
	postUsage(state)
	for range readingsPerBattery {
		appendReading(state)
		time.Sleep(time.Duration(50+int(rndFloat64(0, 500, 0))) * time.Millisecond)
	}
	getRecommendations(state)
	fmt.Printf("\rexecuted actions for battery %v", state.id)
}

func postUsage(state *batteryState) {
	payload := map[string]any{
		"chargingFrequency":      rndFloat64(0.5, 3, 1),
		"dischargeDepth":         rndFloat64(20, 95, 1),
		"temperatureExposure":    rndFloat64(10, 45, 1),
		"usageType":              state.usageType,
		"fastChargingPercentage": rndFloat64(0, 100, 1),
	}
	code, err := postJSON(fmt.Sprintf("/batteries/%d/usage", state.id), payload, nil)
	if err != nil || code != http.StatusOK {
		fmt.Printf("\npost usage failed: code=%v, err=%v\n", code, err)
	}
}

func appendReading(state *batteryState) {
	state.at = state.at.Add(time.Duration(rndFloat64(1, 30, 0)) * 24 * time.Hour)
	state.health = math.Max(0, state.health-rndFloat64(0, 3, 2))
	state.cycles += int(rndFloat64(5, 60, 0))
	capacity := math.Round(state.initial * state.health / 100)

	if flipCoin() {
		payload := map[string]any{
			"timestamp":        state.at.Format(time.RFC3339),
			"capacity":         capacity,
			"healthPercentage": state.health,
			"cycleCount":       state.cycles,
		}
		code, err := postJSON(fmt.Sprintf("/batteries/%d/history", state.id), payload, nil)
		if err != nil || code != http.StatusCreated {
			fmt.Printf("\nappend history failed: code=%v, err=%v\n", code, err)
		}
		return
	}

	req, err := structpb.NewStruct(map[string]any{
		"batteryId":        float64(state.id),
		"timestamp":        state.at.Format(time.RFC3339),
		"capacity":         capacity,
		"healthPercentage": state.health,
		"cycleCount":       float64(state.cycles),
	})
	if err != nil {
		fmt.Printf("\nerror: %v\n", err)
		return
	}
	if _, err := grpcClient.AppendHistory(context.Background(), req); err != nil {
		fmt.Printf("\nerror: %v\n", err)
	}
}

func getRecommendations(state *batteryState) {
	if flipCoin() {
		resp, err := http.Get(fmt.Sprintf("http://%s/batteries/%d/recommendations", httpHostPort, state.id))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Printf("\nresponse status code != 200: %v\n", resp)
		}
		return
	}

	if _, err := grpcClient.ListRecommendations(context.Background(), wrapperspb.UInt64(uint64(state.id))); err != nil {
		fmt.Printf("\nerror: %v\n", err)
	}
}
