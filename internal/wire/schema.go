package wire

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// schema is wire.proto:
//
//	message Snapshot {
//	  string session_id = 1;  uint64 tick = 2;       uint32 phase = 3;
//	  double left_y = 4;      double right_y = 5;
//	  double ball_x = 6;      double ball_y = 7;
//	  double ball_vx = 8;     double ball_vy = 9;
//	  int32 score_left = 10;  int32 score_right = 11;
//	  string message = 12;    string loser = 13;     string taunt = 14;
//	}
//	message Command { uint32 action = 1; uint32 key = 2; }
//	message Envelope { oneof body { Snapshot snapshot = 1; Command command = 2; } }
var schema = &descriptorpb.FileDescriptorProto{
	Name:    proto.String("pongsim/wire.proto"),
	Package: proto.String("pongsim.wire"),
	Syntax:  proto.String("proto3"),
	MessageType: []*descriptorpb.DescriptorProto{
		{
			Name: proto.String("Snapshot"),
			Field: []*descriptorpb.FieldDescriptorProto{
				scalar("session_id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("tick", 2, descriptorpb.FieldDescriptorProto_TYPE_UINT64),
				scalar("phase", 3, descriptorpb.FieldDescriptorProto_TYPE_UINT32),
				scalar("left_y", 4, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE),
				scalar("right_y", 5, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE),
				scalar("ball_x", 6, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE),
				scalar("ball_y", 7, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE),
				scalar("ball_vx", 8, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE),
				scalar("ball_vy", 9, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE),
				scalar("score_left", 10, descriptorpb.FieldDescriptorProto_TYPE_INT32),
				scalar("score_right", 11, descriptorpb.FieldDescriptorProto_TYPE_INT32),
				scalar("message", 12, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("loser", 13, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("taunt", 14, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			},
		},
		{
			Name: proto.String("Command"),
			Field: []*descriptorpb.FieldDescriptorProto{
				scalar("action", 1, descriptorpb.FieldDescriptorProto_TYPE_UINT32),
				scalar("key", 2, descriptorpb.FieldDescriptorProto_TYPE_UINT32),
			},
		},
		{
			Name: proto.String("Envelope"),
			Field: []*descriptorpb.FieldDescriptorProto{
				oneofField("snapshot", 1, ".pongsim.wire.Snapshot"),
				oneofField("command", 2, ".pongsim.wire.Command"),
			},
			OneofDecl: []*descriptorpb.OneofDescriptorProto{{Name: proto.String("body")}},
		},
	},
}

var snapshotDesc, commandDesc, envelopeDesc protoreflect.MessageDescriptor

func init() {
	fd, err := protodesc.NewFile(schema, new(protoregistry.Files))
	if err != nil {
		panic("wire: bad schema: " + err.Error())
	}
	msgs := fd.Messages()
	snapshotDesc = msgs.ByName("Snapshot")
	commandDesc = msgs.ByName("Command")
	envelopeDesc = msgs.ByName("Envelope")
}

func scalar(name string, num int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(num),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func oneofField(name string, num int32, typeName string) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:       proto.String(name),
		Number:     proto.Int32(num),
		Label:      descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:       descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
		TypeName:   proto.String(typeName),
		OneofIndex: proto.Int32(0),
	}
}
