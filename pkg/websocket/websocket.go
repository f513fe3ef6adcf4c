package websocketPkg

import (
	"PodiumBackend/internal/analysis/gaze"
	"PodiumBackend/internal/analysis/posture"
	"encoding/json"
	"fmt"
	"github.com/gorilla/websocket"
	"log"
	"os"
	"sync"
	"time"
)

type StreamType int

const (
	FaceStream StreamType = iota
	PoseStream
)

type IWebsocket interface {
	ProcessFaceFrame(frame []byte) (*gaze.FaceDetection, error)
	ProcessPoseFrame(frame []byte) (*posture.PoseDetection, error)
	IsConnected(streamType StreamType) bool
	Reconnect(streamType StreamType) error
	CloseConnections()
}

type webSocketClient struct {
	faceConn     *websocket.Conn
	poseConn     *websocket.Conn
	mu           sync.Mutex
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewDetectorClient() IWebsocket {
	client := &webSocketClient{
		pingInterval: 30 * time.Second,
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go client.connectInBackground(FaceStream)
	go client.connectInBackground(PoseStream)

	return client
}

func (c *webSocketClient) connectInBackground(streamType StreamType) {
	err := c.Reconnect(streamType)
	if err != nil {
		log.Printf("Initial connection to %s failed: %v. Will retry on demand.",
			getStreamName(streamType), err)
	} else {
		log.Printf("Successfully connected to %s service", getStreamName(streamType))
	}
}

func (c *webSocketClient) IsConnected(streamType StreamType) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch streamType {
	case FaceStream:
		return c.faceConn != nil
	case PoseStream:
		return c.poseConn != nil
	default:
		return false
	}
}

func (c *webSocketClient) Reconnect(streamType StreamType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if streamType == FaceStream && c.faceConn != nil {
		c.faceConn.Close()
		c.faceConn = nil
	} else if streamType == PoseStream && c.poseConn != nil {
		c.poseConn.Close()
		c.poseConn = nil
	}

	url := getWebSocketURL(streamType)
	if url == "" {
		return fmt.Errorf("URL for %s not configured", getStreamName(streamType))
	}

	log.Printf("Connecting to %s at %s", getStreamName(streamType), url)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			log.Printf("Error sending pong: %v", err)
		}
		return nil
	})

	if streamType == FaceStream {
		c.faceConn = conn
	} else {
		c.poseConn = conn
	}

	go c.keepAlive(streamType)

	return nil
}

func (c *webSocketClient) CloseConnections() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.faceConn != nil {
		c.faceConn.Close()
		c.faceConn = nil
	}

	if c.poseConn != nil {
		c.poseConn.Close()
		c.poseConn = nil
	}
}

func (c *webSocketClient) keepAlive(streamType StreamType) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		var conn *websocket.Conn

		if streamType == FaceStream {
			conn = c.faceConn
		} else {
			conn = c.poseConn
		}

		if conn == nil {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(
			websocket.PingMessage,
			[]byte{},
			time.Now().Add(c.writeTimeout),
		)

		if err != nil {
			log.Printf("Ping failed for %s, marking connection as dead: %v",
				getStreamName(streamType), err)
			if streamType == FaceStream {
				c.faceConn = nil
			} else {
				c.poseConn = nil
			}
			conn.Close()
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

func (c *webSocketClient) getConnection(streamType StreamType) (*websocket.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var conn *websocket.Conn

	if streamType == FaceStream {
		conn = c.faceConn
	} else {
		conn = c.poseConn
	}

	if conn == nil {
		return nil, fmt.Errorf("not connected to %s service", getStreamName(streamType))
	}

	return conn, nil
}

// faceEnvelope is the wire format of the face stream. Detections may be empty
// when no face is visible in the frame.
type faceEnvelope struct {
	Detections []gaze.FaceDetection `json:"detections"`
}

type poseEnvelope struct {
	Keypoints []posture.Keypoint `json:"keypoints"`
}

func (c *webSocketClient) ProcessFaceFrame(frame []byte) (*gaze.FaceDetection, error) {
	message, err := c.roundTrip(FaceStream, frame)
	if err != nil {
		return nil, err
	}

	var envelope faceEnvelope
	if err := json.Unmarshal(message, &envelope); err != nil {
		return nil, fmt.Errorf("error unmarshaling face response: %w", err)
	}

	if len(envelope.Detections) == 0 {
		return nil, nil
	}

	return &envelope.Detections[0], nil
}

func (c *webSocketClient) ProcessPoseFrame(frame []byte) (*posture.PoseDetection, error) {
	message, err := c.roundTrip(PoseStream, frame)
	if err != nil {
		return nil, err
	}

	var envelope poseEnvelope
	if err := json.Unmarshal(message, &envelope); err != nil {
		return nil, fmt.Errorf("error unmarshaling pose response: %w", err)
	}

	if len(envelope.Keypoints) == 0 {
		return nil, nil
	}

	return &posture.PoseDetection{Keypoints: envelope.Keypoints}, nil
}

func (c *webSocketClient) roundTrip(streamType StreamType, frame []byte) ([]byte, error) {
	conn, err := c.getConnection(streamType)
	if err != nil {
		if err := c.Reconnect(streamType); err != nil {
			return nil, fmt.Errorf("cannot connect to %s service: %w", getStreamName(streamType), err)
		}
		conn, err = c.getConnection(streamType)
		if err != nil {
			return nil, err
		}
	}

	c.mu.Lock()

	conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))

	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		c.dropConnection(streamType, conn)
		c.mu.Unlock()
		return nil, fmt.Errorf("error sending %s frame: %w", getStreamName(streamType), err)
	}

	conn.SetReadDeadline(time.Now().Add(c.readTimeout))

	c.mu.Unlock()

	_, message, err := conn.ReadMessage()
	if err != nil {
		c.mu.Lock()
		c.dropConnection(streamType, conn)
		c.mu.Unlock()
		return nil, fmt.Errorf("error reading %s message: %w", getStreamName(streamType), err)
	}

	c.mu.Lock()
	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})
	c.mu.Unlock()

	return message, nil
}

// dropConnection requires c.mu held.
func (c *webSocketClient) dropConnection(streamType StreamType, conn *websocket.Conn) {
	if streamType == FaceStream {
		c.faceConn = nil
	} else {
		c.poseConn = nil
	}
	conn.Close()
}

func getWebSocketURL(streamType StreamType) string {
	switch streamType {
	case FaceStream:
		url := os.Getenv("DETECTOR_FACE_URL")
		if url == "" {
			url = "ws://localhost:8000/api/v1/face/ws"
		}
		return url
	case PoseStream:
		url := os.Getenv("DETECTOR_POSE_URL")
		if url == "" {
			url = "ws://localhost:8000/api/v1/pose/ws"
		}
		return url
	default:
		return ""
	}
}

func getStreamName(streamType StreamType) string {
	switch streamType {
	case FaceStream:
		return "face detection"
	case PoseStream:
		return "pose detection"
	default:
		return "unknown"
	}
}
