// Package kube owns the kubernetes control path: building objects from the
// stored documents, rendering them as manifests for kubectl, and reading
// cluster state back.
package kube

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"github.com/orchestr8-platform/orchestr8"
	"github.com/orchestr8-platform/orchestr8/model"
)

const (
	workloadVolumeName = "pv-storage"
	workloadMountPath  = "/workspace"
	storageClassName   = "manual"
)

// NewPodObject builds the kubernetes pod for a stored pod document. The
// volume may be nil when the pod does not mount storage.
func NewPodObject(pod *model.Pod, volume *model.Volume) (*corev1.Pod, error) {
	cpu, err := resource.ParseQuantity(pod.CPU)
	if err != nil {
		return nil, errors.Wrapf(err, "'%s' is not a valid cpu quantity", pod.CPU)
	}
	memory, err := resource.ParseQuantity(pod.Memory)
	if err != nil {
		return nil, errors.Wrapf(err, "'%s' is not a valid memory quantity", pod.Memory)
	}
	if pod.GPUs < 0 {
		return nil, errors.Errorf("%d is not a valid gpu count", pod.GPUs)
	}
	if pod.Port <= 0 || pod.Port > 65535 {
		return nil, errors.Errorf("%d is not a valid container port", pod.Port)
	}

	limits := corev1.ResourceList{
		corev1.ResourceCPU:    cpu,
		corev1.ResourceMemory: memory,
	}
	if pod.GPUs > 0 {
		limits[corev1.ResourceName(orchestr8.GPUResourceName)] = *resource.NewQuantity(int64(pod.GPUs), resource.DecimalSI)
	}

	container := corev1.Container{
		Name:      pod.Name,
		Image:     pod.Image,
		Resources: corev1.ResourceRequirements{Limits: limits},
		Ports:     []corev1.ContainerPort{{ContainerPort: int32(pod.Port)}},
	}
	for _, ev := range pod.Env {
		container.Env = append(container.Env, corev1.EnvVar{Name: ev.Name, Value: ev.Value})
	}

	obj := &corev1.Pod{
		TypeMeta:   metav1.TypeMeta{Kind: "Pod", APIVersion: "v1"},
		ObjectMeta: metav1.ObjectMeta{Name: pod.Name},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{container},
		},
	}

	if pod.GPUs > 0 {
		obj.Spec.NodeSelector = map[string]string{
			orchestr8.GPUNodeSelectorKey: orchestr8.GPUNodeSelectorValue,
		}
	}

	if volume != nil {
		obj.Spec.Volumes = []corev1.Volume{{
			Name: workloadVolumeName,
			VolumeSource: corev1.VolumeSource{
				PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
					ClaimName: volume.Name,
				},
			},
		}}
		obj.Spec.Containers[0].VolumeMounts = []corev1.VolumeMount{{
			Name:      workloadVolumeName,
			MountPath: workloadMountPath,
		}}
	}

	return obj, nil
}

// NewVolumeClaimObject builds the persistent volume claim for a stored
// volume document.
func NewVolumeClaimObject(volume *model.Volume) (*corev1.PersistentVolumeClaim, error) {
	capacity, err := resource.ParseQuantity(volume.Capacity)
	if err != nil {
		return nil, errors.Wrapf(err, "'%s' is not a valid storage quantity", volume.Capacity)
	}

	className := storageClassName
	return &corev1.PersistentVolumeClaim{
		TypeMeta:   metav1.TypeMeta{Kind: "PersistentVolumeClaim", APIVersion: "v1"},
		ObjectMeta: metav1.ObjectMeta{Name: volume.Name},
		Spec: corev1.PersistentVolumeClaimSpec{
			StorageClassName: &className,
			AccessModes:      []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOncePod},
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{corev1.ResourceStorage: capacity},
			},
		},
	}, nil
}

// WriteManifest renders the object as yaml under dir and returns the path
// kubectl should apply.
func WriteManifest(dir, name string, obj interface{}) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "problem creating manifest directory %s", dir)
	}

	out, err := yaml.Marshal(obj)
	if err != nil {
		return "", errors.Wrap(err, "problem rendering manifest")
	}

	path := filepath.Join(dir, name+".yaml")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", errors.Wrapf(err, "problem writing manifest %s", path)
	}

	return path, nil
}
